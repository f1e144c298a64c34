package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bloglist/bloglist-go/internal/model"
	"github.com/bloglist/bloglist-go/internal/repository"
)

// BlogRepository stores blogs through GORM, preloading each owner.
type BlogRepository struct {
	db *gorm.DB
}

var _ repository.BlogStore = (*BlogRepository)(nil)

// NewBlogRepository creates a BlogRepository on db.
func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// Create inserts blog and fills in its timestamps.
func (r *BlogRepository) Create(ctx context.Context, blog *model.Blog) error {
	if blog.ID == "" {
		blog.ID = model.NewID()
	}

	m := BlogModel{
		ID:     blog.ID,
		Title:  blog.Title,
		Author: blog.Author,
		URL:    blog.URL,
		Likes:  blog.Likes,
		UserID: blog.UserID,
	}
	// Only user_id is written; the owner row is never touched.
	if err := r.db.WithContext(ctx).Omit("User").Create(&m).Error; err != nil {
		return err
	}

	blog.CreatedAt = m.CreatedAt
	blog.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID returns the blog with id or repository.ErrBlogNotFound.
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*model.Blog, error) {
	var m BlogModel
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBlogNotFound
		}
		return nil, err
	}
	return m.toEntity(), nil
}

// List returns all blogs in creation order.
func (r *BlogRepository) List(ctx context.Context) ([]model.Blog, error) {
	return r.find(r.db.WithContext(ctx))
}

// ListByUser returns the blogs owned by userID.
func (r *BlogRepository) ListByUser(ctx context.Context, userID string) ([]model.Blog, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// Update writes the fields set in upd and returns the stored blog.
func (r *BlogRepository) Update(ctx context.Context, id string, upd model.BlogUpdate) (*model.Blog, error) {
	fields := updateFields(upd)
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&BlogModel{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes the blog with id or returns repository.ErrBlogNotFound.
func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BlogModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrBlogNotFound
	}
	return nil
}

func (r *BlogRepository) find(tx *gorm.DB) ([]model.Blog, error) {
	var rows []BlogModel
	if err := tx.Preload("User").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	blogs := make([]model.Blog, len(rows))
	for i := range rows {
		blogs[i] = *rows[i].toEntity()
	}
	return blogs, nil
}

// updateFields maps the non-nil fields of upd to column updates. A map is used
// so zero values such as likes = 0 are written.
func updateFields(upd model.BlogUpdate) map[string]any {
	fields := map[string]any{}
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Author != nil {
		fields["author"] = *upd.Author
	}
	if upd.URL != nil {
		fields["url"] = *upd.URL
	}
	if upd.Likes != nil {
		fields["likes"] = *upd.Likes
	}
	return fields
}
