package web

import (
	"context"
	"net/http"
	"net/url"

	"microblog/internal/model"
)

type ctxKey int8

const ctxKeyLogger ctxKey = iota

// withLogger puts the server's logger on the request context so deep
// handlers can log with request scope.
func (s *Server) withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyLogger, s.log)))
	})
}

type authedHandler func(http.ResponseWriter, *http.Request, *model.User)

// requireAuth redirects anonymous visitors to the login page, carrying
// the originally requested path in the next parameter.
func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user == nil {
			login := "/auth/login?next=" + url.QueryEscape(r.URL.Path)
			http.Redirect(w, r, login, http.StatusSeeOther)
			return
		}
		next(w, r, user)
	}
}

// currentUser resolves the session cookie, or nil for anonymous.
func (s *Server) currentUser(r *http.Request) *model.User {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil
	}
	user, err := s.auth.UserBySession(cookie.Value)
	if err != nil {
		return nil
	}
	return user
}
