package authoring

import (
	"errors"
	"path/filepath"
	"testing"

	"microblog/internal/model"
	"microblog/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.SQLite) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st), st
}

func mustUser(t *testing.T, st *store.SQLite, email, username string) *model.User {
	t.Helper()
	u, err := st.CreateUser(email, username, "h")
	if err != nil {
		t.Fatalf("user %s: %v", username, err)
	}
	return u
}

func TestCreate(t *testing.T) {
	svc, st := newTestService(t)
	amogus := mustUser(t, st, "a@b.com", "amogus")
	post, err := svc.Create(amogus, "Текст", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.AuthorID != amogus.ID || post.Text != "Текст" || post.GroupID != nil {
		t.Fatalf("got %+v", post)
	}
	if post.PubDate.IsZero() {
		t.Fatal("pub date not set")
	}
}

func TestCreateEmptyTextWritesNothing(t *testing.T) {
	svc, st := newTestService(t)
	amogus := mustUser(t, st, "a@b.com", "amogus")
	_, err := svc.Create(amogus, "   ", nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["text"]; !ok {
		t.Fatalf("no message for text field: %+v", verr.Fields)
	}
	posts, err := st.ListPosts()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("store has %d posts after failed create", len(posts))
	}
}

func TestCreateUnknownGroup(t *testing.T) {
	svc, st := newTestService(t)
	amogus := mustUser(t, st, "a@b.com", "amogus")
	missing := int64(42)
	_, err := svc.Create(amogus, "Текст", &missing)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["group"]; !ok {
		t.Fatalf("no message for group field: %+v", verr.Fields)
	}
}

func TestEditFormOwnership(t *testing.T) {
	svc, st := newTestService(t)
	amogus := mustUser(t, st, "a@b.com", "amogus")
	other := mustUser(t, st, "b@b.com", "other")
	post, err := svc.Create(amogus, "Текст", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.EditForm(amogus, post.ID)
	if err != nil || got.ID != post.ID {
		t.Fatalf("owner edit form: %v %+v", err, got)
	}
	if _, err := svc.EditForm(other, post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.EditForm(amogus, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitEditByNonOwnerLeavesPostUnmodified(t *testing.T) {
	svc, st := newTestService(t)
	amogus := mustUser(t, st, "a@b.com", "amogus")
	other := mustUser(t, st, "b@b.com", "other")
	post, err := svc.Create(amogus, "Текст", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SubmitEdit(other, post.ID, "чужой текст", nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	got, err := st.PostByID(post.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Text != "Текст" {
		t.Fatalf("post modified by non-owner: %q", got.Text)
	}
}

func TestSubmitEdit(t *testing.T) {
	svc, st := newTestService(t)
	amogus := mustUser(t, st, "a@b.com", "amogus")
	g, err := st.CreateGroup("Test", "test-slug", "d")
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	post, err := svc.Create(amogus, "Текст", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.SubmitEdit(amogus, post.ID, "Обновленный текст", &g.ID)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got.Text != "Обновленный текст" || got.GroupID == nil || *got.GroupID != g.ID {
		t.Fatalf("got %+v", got)
	}
	if got.ID != post.ID || got.AuthorID != post.AuthorID || !got.PubDate.Equal(post.PubDate) {
		t.Fatalf("immutable fields changed: %+v vs %+v", got, post)
	}

	// Empty text on edit is rejected and the post keeps its value.
	if _, err := svc.SubmitEdit(amogus, post.ID, "", nil); err == nil {
		t.Fatal("empty edit accepted")
	}
	check, _ := st.PostByID(post.ID)
	if check.Text != "Обновленный текст" {
		t.Fatalf("failed edit wrote through: %q", check.Text)
	}
}
