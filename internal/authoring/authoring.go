// Package authoring handles post creation and editing. Identity is
// always passed in explicitly; the service never reaches into ambient
// request state to discover who is writing.
package authoring

import (
	"errors"
	"strings"

	"microblog/internal/model"
	"microblog/internal/store"
)

// ErrForbidden is returned when a requester who is not the author
// asks for the edit form or submits an edit.
var ErrForbidden = errors.New("only the author may edit this post")

// ValidationError carries per-field messages for redisplaying the
// form. It is recoverable: nothing was written.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type Service struct {
	store store.Store
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

// Groups lists the group choices offered on the post form.
func (s *Service) Groups() ([]model.Group, error) {
	return s.store.ListGroups()
}

func (s *Service) validate(text string, groupID *int64) error {
	fields := map[string]string{}
	if strings.TrimSpace(text) == "" {
		fields["text"] = "текст поста не может быть пустым"
	}
	if groupID != nil {
		if _, err := s.store.GroupByID(*groupID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fields["group"] = "такого сообщества нет"
			} else {
				return err
			}
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Create persists a new post. The author always comes from the
// authenticated user, never from submitted input.
func (s *Service) Create(author *model.User, text string, groupID *int64) (*model.Post, error) {
	if err := s.validate(text, groupID); err != nil {
		return nil, err
	}
	return s.store.CreatePost(author.ID, text, groupID)
}

// EditForm loads a post for editing. Ownership is checked here, before
// any form is shown, not only on submit.
func (s *Service) EditForm(requester *model.User, postID int64) (*model.Post, error) {
	post, err := s.store.PostByID(postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != requester.ID {
		return nil, ErrForbidden
	}
	return post, nil
}

// SubmitEdit re-checks ownership and updates text and group only.
func (s *Service) SubmitEdit(requester *model.User, postID int64, text string, groupID *int64) (*model.Post, error) {
	post, err := s.store.PostByID(postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != requester.ID {
		return nil, ErrForbidden
	}
	if err := s.validate(text, groupID); err != nil {
		return nil, err
	}
	return s.store.UpdatePost(postID, text, groupID)
}
