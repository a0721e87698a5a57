package model

import "time"

// User is a registered author. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"-"`
	PasswordHash string    `json:"-"`
	Created      time.Time `json:"created"`
}

// Group is a named community posts can be filed under. Groups are
// created administratively; slug is the natural key used in URLs.
type Group struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Post is a single publication. AuthorID is set once at creation and
// never changes; GroupID is optional.
type Post struct {
	ID       int64     `json:"id"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pubDate"`
	AuthorID int64     `json:"authorId"`
	GroupID  *int64    `json:"groupId,omitempty"`

	// Joined for display, not stored on the posts row.
	AuthorUsername string `json:"authorUsername"`
	GroupTitle     string `json:"groupTitle,omitempty"`
	GroupSlug      string `json:"groupSlug,omitempty"`
}

// Session is a login session referenced by the browser cookie.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}
