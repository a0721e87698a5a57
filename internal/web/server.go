// Package web is the HTML boundary: chi routing, template rendering
// and cookie handling around the feed, authoring and auth services.
package web

import (
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"microblog/internal/auth"
	"microblog/internal/authoring"
	"microblog/internal/feed"
)

type Server struct {
	log       *zap.SugaredLogger
	feed      *feed.Service
	authoring *authoring.Service
	auth      *auth.Service

	tmpl       map[string]*template.Template
	staticDir  string
	cookieName string
}

func New(log *zap.SugaredLogger, fd *feed.Service, at *authoring.Service, au *auth.Service, templateDir, staticDir string) (*Server, error) {
	templates := map[string]*template.Template{}
	layout := filepath.Join(templateDir, "layout.html")
	partial := filepath.Join(templateDir, "pagination.html")
	pages, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		base := filepath.Base(page)
		if base == "layout.html" || base == "pagination.html" {
			continue
		}
		t, err := template.ParseFiles(layout, partial, page)
		if err != nil {
			return nil, err
		}
		templates[strings.TrimSuffix(base, ".html")] = t
	}
	return &Server{
		log:        log,
		feed:       fd,
		authoring:  at,
		auth:       au,
		tmpl:       templates,
		staticDir:  staticDir,
		cookieName: "session_id",
	}, nil
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.withLogger)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Get("/", s.handleIndex)
	r.Get("/group/{slug}", s.handleGroup)
	r.Get("/new", s.requireAuth(s.handleCreateForm))
	r.Post("/new", s.requireAuth(s.handleCreateSubmit))

	r.Route("/auth", func(r chi.Router) {
		r.Get("/signup", s.handleSignup)
		r.Post("/signup", s.handleSignup)
		r.Get("/login", s.handleLogin)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
	})

	r.Route("/about", func(r chi.Router) {
		r.Get("/author", s.handleAbout("about_author"))
		r.Get("/tech", s.handleAbout("about_tech"))
	})

	if s.staticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	}

	r.Get("/{username}", s.handleProfile)
	r.Get("/{username}/{postID}", s.handleDetail)
	r.Get("/{username}/{postID}/edit", s.requireAuth(s.handleEditForm))
	r.Post("/{username}/{postID}/edit", s.requireAuth(s.handleEditSubmit))

	r.NotFound(s.notFound)

	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router().ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := s.tmpl[name]
	if !ok {
		s.log.Errorw("template not found", "name", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		s.log.Errorw("render failed", "name", name, "err", err)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, "not_found", map[string]any{
		"User": s.currentUser(r),
		"Path": r.URL.Path,
	})
}
