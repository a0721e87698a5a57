// Package api exposes the feeds as a read-only JSON API under
// /api/v1, for the bundled client and anything else that prefers JSON
// over HTML.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"microblog/internal/feed"
	"microblog/internal/store"
)

type API struct {
	feed *feed.Service
}

func New(fd *feed.Service) *API {
	return &API{feed: fd}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/ping", a.ping)
	r.Get("/posts", a.listPosts)
	r.Get("/groups/{slug}/posts", a.listGroupPosts)
	r.Get("/users/{username}/posts", a.listUserPosts)
	return r
}

func (a *API) ping(w http.ResponseWriter, r *http.Request) {
	render.Respond(w, r, render.M{"status": "pong"})
}

func pageNumber(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (a *API) listPosts(w http.ResponseWriter, r *http.Request) {
	page, err := a.feed.Index(pageNumber(r))
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	if err := render.Render(w, r, NewPageResponse(page)); err != nil {
		a.renderError(w, r, err)
	}
}

func (a *API) listGroupPosts(w http.ResponseWriter, r *http.Request) {
	gf, err := a.feed.Group(chi.URLParam(r, "slug"), pageNumber(r))
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	if err := render.Render(w, r, NewPageResponse(gf.Page)); err != nil {
		a.renderError(w, r, err)
	}
}

func (a *API) listUserPosts(w http.ResponseWriter, r *http.Request) {
	pf, err := a.feed.Profile(chi.URLParam(r, "username"), pageNumber(r))
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	if err := render.Render(w, r, NewPageResponse(pf.Page)); err != nil {
		a.renderError(w, r, err)
	}
}

func (a *API) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var resp render.Renderer
	if errors.Is(err, store.ErrNotFound) {
		resp = ErrNotFound
	} else {
		resp = ErrInternal(err)
	}
	// Render on ErrResponse cannot fail.
	_ = render.Render(w, r, resp)
}
