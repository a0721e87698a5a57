package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndFetchUser(t *testing.T) {
	s := newTestStore(t)
	u, err := s.CreateUser("amogus@example.com", "amogus", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	got, err := s.UserByUsername("amogus")
	if err != nil {
		t.Fatalf("by username: %v", err)
	}
	if got.ID != u.ID || got.Email != "amogus@example.com" {
		t.Fatalf("got %+v", got)
	}
	if _, err := s.UserByUsername("nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDuplicateUser(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateUser("a@b.com", "alice", "h"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateUser("a@b.com", "bob", "h"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := s.CreateUser("b@b.com", "alice", "h"); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestGroupLookup(t *testing.T) {
	s := newTestStore(t)
	g, err := s.CreateGroup("Test", "test-slug", "desc")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	got, err := s.GroupBySlug("test-slug")
	if err != nil {
		t.Fatalf("by slug: %v", err)
	}
	if got.ID != g.ID || got.Title != "Test" {
		t.Fatalf("got %+v", got)
	}
	if _, err := s.GroupBySlug("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostListingOrder(t *testing.T) {
	s := newTestStore(t)
	u, err := s.CreateUser("a@b.com", "amogus", "h")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	g, err := s.CreateGroup("Test", "test-slug", "d")
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := s.CreatePost(u.ID, "пост", &g.ID); err != nil {
			t.Fatalf("post %d: %v", i, err)
		}
	}
	posts, err := s.ListPosts()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("want 3 posts, got %d", len(posts))
	}
	// Newest first; equal timestamps fall back to id descending.
	for i := 1; i < len(posts); i++ {
		prev, cur := posts[i-1], posts[i]
		if cur.PubDate.After(prev.PubDate) {
			t.Fatalf("posts out of order at %d", i)
		}
		if cur.PubDate.Equal(prev.PubDate) && cur.ID > prev.ID {
			t.Fatalf("id tie-break violated at %d", i)
		}
	}

	byGroup, err := s.ListPostsByGroup("test-slug")
	if err != nil {
		t.Fatalf("by group: %v", err)
	}
	if len(byGroup) != 3 {
		t.Fatalf("want 3 group posts, got %d", len(byGroup))
	}
	byAuthor, err := s.ListPostsByAuthor("amogus")
	if err != nil {
		t.Fatalf("by author: %v", err)
	}
	if len(byAuthor) != 3 {
		t.Fatalf("want 3 author posts, got %d", len(byAuthor))
	}
	if byAuthor[0].AuthorUsername != "amogus" || byAuthor[0].GroupSlug != "test-slug" {
		t.Fatalf("join fields missing: %+v", byAuthor[0])
	}
}

func TestUpdatePostTouchesTextAndGroupOnly(t *testing.T) {
	s := newTestStore(t)
	u, err := s.CreateUser("a@b.com", "amogus", "h")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	p, err := s.CreatePost(u.ID, "Текст", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	got, err := s.UpdatePost(p.ID, "Обновленный текст", nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Text != "Обновленный текст" {
		t.Fatalf("text not updated: %q", got.Text)
	}
	if got.ID != p.ID || got.AuthorID != p.AuthorID || !got.PubDate.Equal(p.PubDate) {
		t.Fatalf("immutable fields changed: %+v vs %+v", got, p)
	}
	if _, err := s.UpdatePost(9999, "x", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
