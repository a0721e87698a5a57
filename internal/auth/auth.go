// Package auth provides signup, login and cookie-session resolution
// for the HTML surface.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"microblog/internal/model"
	"microblog/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingFields      = errors.New("email, username and password are required")
)

type Service struct {
	store store.Store
	ttl   time.Duration
}

func New(st store.Store, ttl time.Duration) *Service {
	return &Service{store: st, ttl: ttl}
}

func (s *Service) Signup(email, username, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return nil, ErrMissingFields
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.store.CreateUser(email, username, string(hash))
}

// Login verifies the password and opens a new session, returning its
// id and expiry for the cookie.
func (s *Service) Login(username, password string) (string, time.Time, error) {
	user, err := s.store.UserByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	sid := uuid.NewString()
	expires := time.Now().Add(s.ttl)
	if err := s.store.CreateSession(sid, user.ID, expires); err != nil {
		return "", time.Time{}, err
	}
	return sid, expires, nil
}

func (s *Service) Logout(sessionID string) error {
	return s.store.RevokeSession(sessionID)
}

// UserBySession resolves a cookie value to its user. Expired, revoked
// and unknown sessions all come back as store.ErrNotFound.
func (s *Service) UserBySession(sessionID string) (*model.User, error) {
	sess, err := s.store.SessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.RevokedAt != nil || sess.ExpiresAt.Before(time.Now()) {
		return nil, store.ErrNotFound
	}
	return s.store.UserByID(sess.UserID)
}
