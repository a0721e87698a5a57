package api

import (
	"net/http"

	"github.com/go-chi/render"

	"microblog/internal/model"
	"microblog/internal/pagination"
)

// PostResponse is the JSON payload for a single post.
type PostResponse struct {
	*model.Post
}

func NewPostResponse(post *model.Post) *PostResponse {
	return &PostResponse{Post: post}
}

func (rd *PostResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// PageResponse is one page of posts plus pagination metadata.
type PageResponse struct {
	Posts      []*PostResponse `json:"posts"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	TotalCount int             `json:"totalCount"`
	HasNext    bool            `json:"hasNext"`
	HasPrev    bool            `json:"hasPrev"`
}

func NewPageResponse(page pagination.Page) *PageResponse {
	posts := make([]*PostResponse, 0, len(page.Posts))
	for i := range page.Posts {
		posts = append(posts, NewPostResponse(&page.Posts[i]))
	}
	return &PageResponse{
		Posts:      posts,
		Page:       page.Number,
		TotalPages: page.TotalPages,
		TotalCount: page.TotalCount,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrev,
	}
}

func (rd *PageResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

var ErrNotFound = &ErrResponse{HTTPStatusCode: http.StatusNotFound, StatusText: "Resource not found."}

func ErrInternal(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}
