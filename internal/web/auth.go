package web

import (
	"errors"
	"net/http"
	"strings"

	"microblog/internal/auth"
	"microblog/internal/store"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.render(w, http.StatusOK, "signup", map[string]any{
			"User":     s.currentUser(r),
			"Error":    "",
			"Email":    "",
			"Username": "",
		})
		return
	}

	email := r.FormValue("email")
	username := r.FormValue("username")
	password := r.FormValue("password")
	_, err := s.auth.Signup(email, username, password)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			msg = "заполните все поля"
		case errors.Is(err, store.ErrDuplicateEmail):
			msg = "эта почта уже занята"
		case errors.Is(err, store.ErrDuplicateUsername):
			msg = "это имя уже занято"
		default:
			s.serverError(w, err)
			return
		}
		s.render(w, http.StatusOK, "signup", map[string]any{
			"Error":    msg,
			"Email":    email,
			"Username": username,
		})
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.FormValue("next"))

	if r.Method == http.MethodGet {
		s.render(w, http.StatusOK, "login", map[string]any{
			"User":     s.currentUser(r),
			"Error":    "",
			"Username": "",
			"Next":     next,
		})
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	sid, expires, err := s.auth.Login(username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.render(w, http.StatusOK, "login", map[string]any{
				"Error":    "неверное имя пользователя или пароль",
				"Username": username,
				"Next":     next,
			})
			return
		}
		s.serverError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    sid,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
	})
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		if err := s.auth.Logout(cookie.Value); err != nil {
			s.log.Errorw("logout", "err", err)
		}
		http.SetCookie(w, &http.Cookie{Name: s.cookieName, Path: "/", MaxAge: -1})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
