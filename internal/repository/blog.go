package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/bloglist/bloglist-go/internal/model"
)

// BlogRepository handles blog persistence operations on MySQL.
type BlogRepository struct {
	db *sql.DB
}

var _ BlogStore = (*BlogRepository)(nil)

// NewBlogRepository creates a new BlogRepository.
func NewBlogRepository(db *sql.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

const selectBlogs = `SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, b.created_at, b.updated_at,
		u.username, u.name
	FROM blogs b JOIN users u ON u.id = b.user_id`

// Create inserts a new blog. A missing ID is generated.
func (r *BlogRepository) Create(ctx context.Context, blog *model.Blog) error {
	if blog.ID == "" {
		blog.ID = model.NewID()
	}

	query := `INSERT INTO blogs (id, title, author, url, likes, user_id) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, blog.ID, blog.Title, blog.Author, blog.URL, blog.Likes, blog.UserID)
	return err
}

// GetByID retrieves a blog with its owner.
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*model.Blog, error) {
	row := r.db.QueryRowContext(ctx, selectBlogs+` WHERE b.id = ?`, id)

	blog, err := scanBlog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	return blog, nil
}

// List returns every blog in creation order.
func (r *BlogRepository) List(ctx context.Context) ([]model.Blog, error) {
	return r.query(ctx, selectBlogs+` ORDER BY b.id`)
}

// ListByUser returns the blogs owned by userID in creation order.
func (r *BlogRepository) ListByUser(ctx context.Context, userID string) ([]model.Blog, error) {
	return r.query(ctx, selectBlogs+` WHERE b.user_id = ? ORDER BY b.id`, userID)
}

// Update applies the non-nil fields of upd and returns the updated blog.
func (r *BlogRepository) Update(ctx context.Context, id string, upd model.BlogUpdate) (*model.Blog, error) {
	sets, args := updateClauses(upd)
	if len(sets) > 0 {
		query := `UPDATE blogs SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
		if _, err := r.db.ExecContext(ctx, query, append(args, id)...); err != nil {
			return nil, err
		}
	}

	// MySQL reports zero affected rows for no-op updates, so existence is
	// decided by the read.
	return r.GetByID(ctx, id)
}

// Delete removes a blog.
func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrBlogNotFound
	}

	return nil
}

func (r *BlogRepository) query(ctx context.Context, query string, args ...any) ([]model.Blog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []model.Blog
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *blog)
	}

	return blogs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlog(s scanner) (*model.Blog, error) {
	b := &model.Blog{User: &model.UserSummary{}}
	if err := s.Scan(
		&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.UserID, &b.CreatedAt, &b.UpdatedAt,
		&b.User.Username, &b.User.Name,
	); err != nil {
		return nil, err
	}
	b.User.ID = b.UserID
	return b, nil
}

// updateClauses builds the SET list for the non-nil fields of upd.
func updateClauses(upd model.BlogUpdate) ([]string, []any) {
	var sets []string
	var args []any

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Author != nil {
		sets = append(sets, "author = ?")
		args = append(args, *upd.Author)
	}
	if upd.URL != nil {
		sets = append(sets, "url = ?")
		args = append(args, *upd.URL)
	}
	if upd.Likes != nil {
		sets = append(sets, "likes = ?")
		args = append(args, *upd.Likes)
	}

	return sets, args
}
