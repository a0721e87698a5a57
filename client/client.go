// Package client is a small HTTP client for the microblog JSON API.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	http.Client
	Addr string
}

// Post mirrors the API's post payload.
type Post struct {
	ID             int64     `json:"id"`
	Text           string    `json:"text"`
	PubDate        time.Time `json:"pubDate"`
	AuthorUsername string    `json:"authorUsername"`
	GroupSlug      string    `json:"groupSlug,omitempty"`
	GroupTitle     string    `json:"groupTitle,omitempty"`
}

// Page is one page of posts with pagination metadata.
type Page struct {
	Posts      []Post `json:"posts"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	TotalCount int    `json:"totalCount"`
	HasNext    bool   `json:"hasNext"`
	HasPrev    bool   `json:"hasPrev"`
}

func (c *Client) Ping() (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.Addr+"/api/v1/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	return payload.Status, nil
}

func (c *Client) ListPosts(page int) (*Page, error) {
	return c.getPage(fmt.Sprintf("%s/api/v1/posts?page=%d", c.Addr, page))
}

func (c *Client) ListGroupPosts(slug string, page int) (*Page, error) {
	return c.getPage(fmt.Sprintf("%s/api/v1/groups/%s/posts?page=%d", c.Addr, url.PathEscape(slug), page))
}

func (c *Client) ListUserPosts(username string, page int) (*Page, error) {
	return c.getPage(fmt.Sprintf("%s/api/v1/users/%s/posts?page=%d", c.Addr, url.PathEscape(username), page))
}

func (c *Client) getPage(u string) (*Page, error) {
	resp, err := c.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}
