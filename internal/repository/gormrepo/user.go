package gormrepo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bloglist/bloglist-go/internal/model"
	"github.com/bloglist/bloglist-go/internal/repository"
)

// UserRepository stores users through GORM.
type UserRepository struct {
	db *gorm.DB
}

var _ repository.UserStore = (*UserRepository)(nil)

// NewUserRepository creates a UserRepository on db.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts user, assigning an ID when it has none. A taken username
// yields repository.ErrDuplicateUsername.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = model.NewID()
	}

	m := userToModel(user)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicateKey(err) {
			return repository.ErrDuplicateUsername
		}
		return err
	}

	user.CreatedAt = m.CreatedAt
	return nil
}

// GetByID returns the user with id or repository.ErrUserNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByUsername looks up a user by exact, case-sensitive username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.first(ctx, "username = ?", username)
}

// List returns all users in creation order.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var rows []UserModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	users := make([]model.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].toEntity()
	}
	return users, nil
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*model.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	return m.toEntity(), nil
}

// isDuplicateKey covers dialects whose errors GORM does not translate.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
