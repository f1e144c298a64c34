package service

import "github.com/bloglist/bloglist-go/internal/model"

// TotalLikes sums likes over blogs.
func TotalLikes(blogs []model.BlogResponse) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}
	return total
}

// FavoriteBlog returns the most liked blog, or nil for an empty list.
// On ties the later blog wins.
func FavoriteBlog(blogs []model.BlogResponse) *model.FavoriteBlog {
	if len(blogs) == 0 {
		return nil
	}

	best := blogs[0]
	for _, b := range blogs[1:] {
		if b.Likes >= best.Likes {
			best = b
		}
	}

	return &model.FavoriteBlog{Title: best.Title, Author: best.Author, Likes: best.Likes}
}
