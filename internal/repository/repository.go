package repository

import (
	"context"
	"errors"

	"github.com/bloglist/bloglist-go/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrBlogNotFound      = errors.New("blog not found")
)

// UserStore persists user accounts. Implementations enforce username uniqueness
// and return ErrDuplicateUsername when it is violated.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// BlogStore persists blog posts. Reads populate Blog.User with the owner summary
// and return blogs in creation order.
type BlogStore interface {
	Create(ctx context.Context, blog *model.Blog) error
	GetByID(ctx context.Context, id string) (*model.Blog, error)
	List(ctx context.Context) ([]model.Blog, error)
	ListByUser(ctx context.Context, userID string) ([]model.Blog, error)
	Update(ctx context.Context, id string, upd model.BlogUpdate) (*model.Blog, error)
	Delete(ctx context.Context, id string) error
}
