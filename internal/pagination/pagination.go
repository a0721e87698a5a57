// Package pagination splits an ordered post list into fixed-size pages.
package pagination

import "microblog/internal/model"

// Pager cuts pages of a fixed size. The size comes from configuration
// at construction time.
type Pager struct {
	PageSize int
}

func New(pageSize int) Pager {
	return Pager{PageSize: pageSize}
}

// Page is one window into an ordered result set plus the metadata a
// template needs to render page navigation.
type Page struct {
	Posts      []model.Post
	Number     int
	TotalPages int
	TotalCount int
	HasNext    bool
	HasPrev    bool
}

// PrevNumber and NextNumber are for page navigation links; they are
// only meaningful when the corresponding Has flag is set.
func (p Page) PrevNumber() int { return p.Number - 1 }
func (p Page) NextNumber() int { return p.Number + 1 }

// Page returns page number of posts. Out-of-range numbers clamp: below
// one to the first page, past the end to the last. An empty input
// yields a single empty page.
func (p Pager) Page(posts []model.Post, number int) Page {
	total := (len(posts) + p.PageSize - 1) / p.PageSize
	if total == 0 {
		total = 1
	}
	if number < 1 {
		number = 1
	}
	if number > total {
		number = total
	}
	start := (number - 1) * p.PageSize
	end := start + p.PageSize
	if start > len(posts) {
		start = len(posts)
	}
	if end > len(posts) {
		end = len(posts)
	}
	return Page{
		Posts:      posts[start:end],
		Number:     number,
		TotalPages: total,
		TotalCount: len(posts),
		HasNext:    number < total,
		HasPrev:    number > 1,
	}
}
