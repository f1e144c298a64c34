package service

import (
	"testing"

	"github.com/bloglist/bloglist-go/internal/model"
)

var statsFixture = []model.BlogResponse{
	{Title: "React patterns", Author: "Michael Chan", Likes: 7},
	{Title: "Go To Statement Considered Harmful", Author: "Edsger W. Dijkstra", Likes: 5},
	{Title: "Canonical string reduction", Author: "Edsger W. Dijkstra", Likes: 12},
	{Title: "First class tests", Author: "Robert C. Martin", Likes: 10},
	{Title: "TDD harms architecture", Author: "Robert C. Martin", Likes: 0},
	{Title: "Type wars", Author: "Robert C. Martin", Likes: 2},
}

func TestTotalLikes(t *testing.T) {
	tests := []struct {
		name  string
		blogs []model.BlogResponse
		want  int
	}{
		{"empty list", nil, 0},
		{"single blog", statsFixture[:1], 7},
		{"bigger list", statsFixture, 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalLikes(tt.blogs); got != tt.want {
				t.Errorf("TotalLikes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFavoriteBlog(t *testing.T) {
	if got := FavoriteBlog(nil); got != nil {
		t.Errorf("FavoriteBlog(nil) = %+v, want nil", got)
	}

	got := FavoriteBlog(statsFixture)
	want := model.FavoriteBlog{Title: "Canonical string reduction", Author: "Edsger W. Dijkstra", Likes: 12}
	if got == nil || *got != want {
		t.Errorf("FavoriteBlog() = %+v, want %+v", got, want)
	}
}

func TestFavoriteBlog_TieGoesToLater(t *testing.T) {
	blogs := []model.BlogResponse{
		{Title: "first", Likes: 4},
		{Title: "second", Likes: 4},
	}
	if got := FavoriteBlog(blogs); got == nil || got.Title != "second" {
		t.Errorf("FavoriteBlog() = %+v, want second", got)
	}
}
