package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"microblog/internal/authoring"
	"microblog/internal/model"
	"microblog/internal/store"
)

// postForm is the view data for the shared create/edit form. IsEdit
// selects the edit variant of the template.
type postForm struct {
	IsEdit  bool
	Text    string
	GroupID int64
	Groups  []model.Group
	Errors  map[string]string
	Post    *model.Post
}

func pageNumber(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func postDetailPath(username string, postID int64) string {
	return fmt.Sprintf("/%s/%d", username, postID)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.feed.Index(pageNumber(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "index", map[string]any{
		"Page": page,
		"User": s.currentUser(r),
	})
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	gf, err := s.feed.Group(slug, pageNumber(r))
	if errors.Is(err, store.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "group", map[string]any{
		"Group": gf.Group,
		"Page":  gf.Page,
		"User":  s.currentUser(r),
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	pf, err := s.feed.Profile(username, pageNumber(r))
	if errors.Is(err, store.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "profile", map[string]any{
		"Author":    pf.Author,
		"PostCount": pf.PostCount,
		"Page":      pf.Page,
		"User":      s.currentUser(r),
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		s.notFound(w, r)
		return
	}
	post, err := s.feed.Detail(username, postID)
	if errors.Is(err, store.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "post_detail", map[string]any{
		"Post": post,
		"User": s.currentUser(r),
	})
}

func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request, user *model.User) {
	groups, err := s.authoring.Groups()
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.renderPostForm(w, http.StatusOK, user, postForm{Groups: groups})
}

func (s *Server) handleCreateSubmit(w http.ResponseWriter, r *http.Request, user *model.User) {
	text := r.FormValue("text")
	groupID, groupErr := parseGroupID(r.FormValue("group"))

	form := postForm{Text: text}
	if groupID != nil {
		form.GroupID = *groupID
	}
	if groupErr != "" {
		form.Errors = map[string]string{"group": groupErr}
		s.redisplayPostForm(w, user, form)
		return
	}

	if _, err := s.authoring.Create(user, text, groupID); err != nil {
		var verr *authoring.ValidationError
		if errors.As(err, &verr) {
			form.Errors = verr.Fields
			s.redisplayPostForm(w, user, form)
			return
		}
		s.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request, user *model.User) {
	username := chi.URLParam(r, "username")
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		s.notFound(w, r)
		return
	}
	if _, err := s.feed.Detail(username, postID); errors.Is(err, store.ErrNotFound) {
		s.notFound(w, r)
		return
	} else if err != nil {
		s.serverError(w, err)
		return
	}

	post, err := s.authoring.EditForm(user, postID)
	if errors.Is(err, authoring.ErrForbidden) {
		http.Redirect(w, r, postDetailPath(username, postID), http.StatusSeeOther)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}

	form := postForm{IsEdit: true, Text: post.Text, Post: post}
	if post.GroupID != nil {
		form.GroupID = *post.GroupID
	}
	s.renderPostForm(w, http.StatusOK, user, form)
}

func (s *Server) handleEditSubmit(w http.ResponseWriter, r *http.Request, user *model.User) {
	username := chi.URLParam(r, "username")
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		s.notFound(w, r)
		return
	}
	post, err := s.feed.Detail(username, postID)
	if errors.Is(err, store.ErrNotFound) {
		s.notFound(w, r)
		return
	} else if err != nil {
		s.serverError(w, err)
		return
	}

	text := r.FormValue("text")
	groupID, groupErr := parseGroupID(r.FormValue("group"))

	form := postForm{IsEdit: true, Text: text, Post: post}
	if groupID != nil {
		form.GroupID = *groupID
	}
	if groupErr != "" {
		form.Errors = map[string]string{"group": groupErr}
		s.redisplayPostForm(w, user, form)
		return
	}

	if _, err := s.authoring.SubmitEdit(user, postID, text, groupID); err != nil {
		switch {
		case errors.Is(err, authoring.ErrForbidden):
			http.Redirect(w, r, postDetailPath(username, postID), http.StatusSeeOther)
		case errors.Is(err, store.ErrNotFound):
			s.notFound(w, r)
		default:
			var verr *authoring.ValidationError
			if errors.As(err, &verr) {
				form.Errors = verr.Fields
				s.redisplayPostForm(w, user, form)
				return
			}
			s.serverError(w, err)
		}
		return
	}
	http.Redirect(w, r, postDetailPath(username, postID), http.StatusSeeOther)
}

// renderPostForm fills in the group choices and renders the shared
// create/edit template.
func (s *Server) renderPostForm(w http.ResponseWriter, status int, user *model.User, form postForm) {
	if form.Groups == nil {
		groups, err := s.authoring.Groups()
		if err != nil {
			s.serverError(w, err)
			return
		}
		form.Groups = groups
	}
	s.render(w, status, "post_form", map[string]any{
		"Form": form,
		"User": user,
	})
}

// redisplayPostForm re-renders the form with field errors. Validation
// failures are recoverable, so the status stays 200.
func (s *Server) redisplayPostForm(w http.ResponseWriter, user *model.User, form postForm) {
	s.renderPostForm(w, http.StatusOK, user, form)
}

func (s *Server) handleAbout(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusOK, name, map[string]any{"User": s.currentUser(r)})
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.Errorw("internal error", "err", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// parseGroupID turns the form's group select value into an optional
// group id. Empty means no group. A second return of non-empty string
// is the field error message.
func parseGroupID(raw string) (*int64, string) {
	if raw == "" || raw == "0" {
		return nil, ""
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, "такого сообщества нет"
	}
	return &id, ""
}
