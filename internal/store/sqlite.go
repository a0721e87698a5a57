package store

import (
	"database/sql"
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"microblog/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLite implements Store on top of a single sqlite database file.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and applies
// the embedded schema.
func Open(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	schema, err := fs.ReadFile(schemaFS, "schema.sql")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(string(schema)); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) CreateUser(email, username, passwordHash string) (*model.User, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO users (email, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		email, username, passwordHash, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return nil, ErrDuplicateEmail
		}
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.username") {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.User{ID: id, Email: email, Username: username, PasswordHash: passwordHash, Created: now}, nil
}

func (s *SQLite) UserByID(id int64) (*model.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, email, username, password_hash, created_at FROM users WHERE id = ?`, id))
}

func (s *SQLite) UserByUsername(username string) (*model.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, email, username, password_hash, created_at FROM users WHERE username = ?`, username))
}

func (s *SQLite) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLite) CreateSession(id string, userID int64, expires time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`,
		id, userID, expires.UTC())
	return err
}

func (s *SQLite) SessionByID(id string) (*model.Session, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, created_at, expires_at, revoked_at FROM sessions WHERE id = ?`, id)
	var sess model.Session
	var revoked sql.NullTime
	err := row.Scan(&sess.ID, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt, &revoked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if revoked.Valid {
		sess.RevokedAt = &revoked.Time
	}
	return &sess, nil
}

func (s *SQLite) RevokeSession(id string) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET revoked_at = CURRENT_TIMESTAMP WHERE id = ? AND revoked_at IS NULL`, id)
	return err
}

func (s *SQLite) CreateGroup(title, slug, description string) (*model.Group, error) {
	res, err := s.db.Exec(
		`INSERT INTO groups (title, slug, description) VALUES (?, ?, ?)`,
		title, slug, description)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Group{ID: id, Title: title, Slug: slug, Description: description}, nil
}

func (s *SQLite) GroupByID(id int64) (*model.Group, error) {
	return s.scanGroup(s.db.QueryRow(
		`SELECT id, title, slug, description FROM groups WHERE id = ?`, id))
}

func (s *SQLite) GroupBySlug(slug string) (*model.Group, error) {
	return s.scanGroup(s.db.QueryRow(
		`SELECT id, title, slug, description FROM groups WHERE slug = ?`, slug))
}

func (s *SQLite) scanGroup(row *sql.Row) (*model.Group, error) {
	var g model.Group
	err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *SQLite) ListGroups() ([]model.Group, error) {
	rows, err := s.db.Query(`SELECT id, title, slug, description FROM groups ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var groups []model.Group
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *SQLite) CreatePost(authorID int64, text string, groupID *int64) (*model.Post, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO posts (text, pub_date, author_id, group_id) VALUES (?, ?, ?, ?)`,
		text, now, authorID, groupID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.PostByID(id)
}

const postSelect = `
SELECT p.id, p.text, p.pub_date, p.author_id, p.group_id,
       u.username, COALESCE(g.title, ''), COALESCE(g.slug, '')
FROM posts p
JOIN users u ON u.id = p.author_id
LEFT JOIN groups g ON g.id = p.group_id`

func (s *SQLite) PostByID(id int64) (*model.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.id = ?`, id)
	var p model.Post
	var groupID sql.NullInt64
	err := row.Scan(&p.ID, &p.Text, &p.PubDate, &p.AuthorID, &groupID,
		&p.AuthorUsername, &p.GroupTitle, &p.GroupSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if groupID.Valid {
		p.GroupID = &groupID.Int64
	}
	return &p, nil
}

// UpdatePost changes text and group only. Identifier, author and
// publication date are immutable.
func (s *SQLite) UpdatePost(id int64, text string, groupID *int64) (*model.Post, error) {
	res, err := s.db.Exec(`UPDATE posts SET text = ?, group_id = ? WHERE id = ?`, text, groupID, id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.PostByID(id)
}

func (s *SQLite) ListPosts() ([]model.Post, error) {
	return s.listPosts(postSelect+` ORDER BY p.pub_date DESC, p.id DESC`)
}

func (s *SQLite) ListPostsByGroup(slug string) ([]model.Post, error) {
	return s.listPosts(postSelect+` WHERE g.slug = ? ORDER BY p.pub_date DESC, p.id DESC`, slug)
}

func (s *SQLite) ListPostsByAuthor(username string) ([]model.Post, error) {
	return s.listPosts(postSelect+` WHERE u.username = ? ORDER BY p.pub_date DESC, p.id DESC`, username)
}

func (s *SQLite) listPosts(query string, args ...any) ([]model.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var posts []model.Post
	for rows.Next() {
		var p model.Post
		var groupID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Text, &p.PubDate, &p.AuthorID, &groupID,
			&p.AuthorUsername, &p.GroupTitle, &p.GroupSlug); err != nil {
			return nil, err
		}
		if groupID.Valid {
			p.GroupID = &groupID.Int64
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
