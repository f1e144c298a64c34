package model

import "time"

// Blog represents a blog post in the store. User is populated by list and
// lookup queries; writes only look at UserID.
type Blog struct {
	ID        string
	Title     string
	Author    string
	URL       string
	Likes     int
	UserID    string
	User      *UserSummary
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlogRequest is the body of POST /api/blogs. Any owner field sent by the
// client is ignored.
type BlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
}

// BlogUpdate is the body of PUT /api/blogs/{id}. Nil fields are left unchanged.
type BlogUpdate struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	URL    *string `json:"url"`
	Likes  *int    `json:"likes"`
}

// Empty reports whether the update changes nothing.
func (u BlogUpdate) Empty() bool {
	return u.Title == nil && u.Author == nil && u.URL == nil && u.Likes == nil
}

// BlogResponse is a blog as returned by the API, owner expanded.
type BlogResponse struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Author string       `json:"author"`
	URL    string       `json:"url"`
	Likes  int          `json:"likes"`
	User   *UserSummary `json:"user"`
}

// BlogSummary is a blog as listed under its owner.
type BlogSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}

// ToResponse converts b for API output.
func (b Blog) ToResponse() BlogResponse {
	return BlogResponse{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		URL:    b.URL,
		Likes:  b.Likes,
		User:   b.User,
	}
}

// ToSummary converts b for listing under its owner.
func (b Blog) ToSummary() BlogSummary {
	return BlogSummary{ID: b.ID, Title: b.Title, Author: b.Author, URL: b.URL, Likes: b.Likes}
}

// BlogStats aggregates likes over a blog list.
type BlogStats struct {
	TotalLikes int           `json:"totalLikes"`
	Favorite   *FavoriteBlog `json:"favorite"`
}

// FavoriteBlog is the most liked blog.
type FavoriteBlog struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// BlogDeletedEvent is published after a blog is removed.
type BlogDeletedEvent struct {
	ID     string `json:"id"`
	UserID string `json:"user"`
}
