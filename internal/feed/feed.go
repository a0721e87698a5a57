// Package feed assembles the read-only post feeds: the global index,
// per-group listings and per-author profiles. All operations are pure
// reads and safe to call concurrently.
package feed

import (
	"microblog/internal/model"
	"microblog/internal/pagination"
	"microblog/internal/store"
)

type Service struct {
	store store.Store
	pager pagination.Pager
}

func New(st store.Store, pager pagination.Pager) *Service {
	return &Service{store: st, pager: pager}
}

// GroupFeed is one page of a group's posts plus the group itself for
// the page header.
type GroupFeed struct {
	Group *model.Group
	Page  pagination.Page
}

// ProfileFeed is one page of an author's posts plus the author and
// their total post count.
type ProfileFeed struct {
	Author    *model.User
	PostCount int
	Page      pagination.Page
}

func (s *Service) Index(page int) (pagination.Page, error) {
	posts, err := s.store.ListPosts()
	if err != nil {
		return pagination.Page{}, err
	}
	return s.pager.Page(posts, page), nil
}

// Group returns one page of the named group's feed. Unknown slugs
// propagate store.ErrNotFound.
func (s *Service) Group(slug string, page int) (GroupFeed, error) {
	group, err := s.store.GroupBySlug(slug)
	if err != nil {
		return GroupFeed{}, err
	}
	posts, err := s.store.ListPostsByGroup(slug)
	if err != nil {
		return GroupFeed{}, err
	}
	return GroupFeed{Group: group, Page: s.pager.Page(posts, page)}, nil
}

// Profile returns one page of the author's posts. Unknown usernames
// propagate store.ErrNotFound.
func (s *Service) Profile(username string, page int) (ProfileFeed, error) {
	author, err := s.store.UserByUsername(username)
	if err != nil {
		return ProfileFeed{}, err
	}
	posts, err := s.store.ListPostsByAuthor(username)
	if err != nil {
		return ProfileFeed{}, err
	}
	return ProfileFeed{
		Author:    author,
		PostCount: len(posts),
		Page:      s.pager.Page(posts, page),
	}, nil
}

// Detail resolves a single post through its author's URL. A post id
// that exists but belongs to a different author is treated as unknown.
func (s *Service) Detail(username string, postID int64) (*model.Post, error) {
	author, err := s.store.UserByUsername(username)
	if err != nil {
		return nil, err
	}
	post, err := s.store.PostByID(postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != author.ID {
		return nil, store.ErrNotFound
	}
	return post, nil
}
