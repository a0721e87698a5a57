package store

import (
	"errors"
	"time"

	"microblog/internal/model"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Store is the persistence contract the services are written against.
// The shipped implementation is SQLite; anything that answers these
// queries can stand in behind it.
type Store interface {
	CreateUser(email, username, passwordHash string) (*model.User, error)
	UserByID(id int64) (*model.User, error)
	UserByUsername(username string) (*model.User, error)

	CreateSession(id string, userID int64, expires time.Time) error
	SessionByID(id string) (*model.Session, error)
	RevokeSession(id string) error

	CreateGroup(title, slug, description string) (*model.Group, error)
	GroupByID(id int64) (*model.Group, error)
	GroupBySlug(slug string) (*model.Group, error)
	ListGroups() ([]model.Group, error)

	CreatePost(authorID int64, text string, groupID *int64) (*model.Post, error)
	PostByID(id int64) (*model.Post, error)
	UpdatePost(id int64, text string, groupID *int64) (*model.Post, error)
	ListPosts() ([]model.Post, error)
	ListPostsByGroup(slug string) ([]model.Post, error)
	ListPostsByAuthor(username string) ([]model.Post, error)
}
