package gormrepo

import (
	"time"

	"github.com/bloglist/bloglist-go/internal/model"
)

// UserModel is the users table row. Username comparison is case-sensitive on
// both SQLite and PostgreSQL.
type UserModel struct {
	ID           string `gorm:"primaryKey;size:24"`
	Username     string `gorm:"uniqueIndex;size:255;not null"`
	Name         string `gorm:"type:text;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
}

// TableName overrides GORM's pluralized default.
func (UserModel) TableName() string {
	return "users"
}

// BlogModel is the blogs table row. Text fields carry no length limit.
type BlogModel struct {
	ID        string    `gorm:"primaryKey;size:24"`
	Title     string    `gorm:"type:text;not null"`
	Author    string    `gorm:"type:text;not null"`
	URL       string    `gorm:"column:url;type:text;not null"`
	Likes     int       `gorm:"not null"`
	UserID    string    `gorm:"size:24;not null;index"`
	User      UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's pluralized default.
func (BlogModel) TableName() string {
	return "blogs"
}

func userToModel(u *model.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (m *UserModel) toEntity() *model.User {
	return &model.User{
		ID:           m.ID,
		Username:     m.Username,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

func (m *BlogModel) toEntity() *model.Blog {
	b := &model.Blog{
		ID:        m.ID,
		Title:     m.Title,
		Author:    m.Author,
		URL:       m.URL,
		Likes:     m.Likes,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.User.ID != "" {
		b.User = &model.UserSummary{ID: m.User.ID, Username: m.User.Username, Name: m.User.Name}
	}
	return b
}
