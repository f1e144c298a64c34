package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bloglist/bloglist-go/internal/crypto"
	"github.com/bloglist/bloglist-go/internal/events"
	"github.com/bloglist/bloglist-go/internal/model"
	"github.com/bloglist/bloglist-go/internal/repository"
)

const (
	MinUsernameLength = 3
	// MaxUsernameLength matches the indexed username column.
	MaxUsernameLength = 255
	MinPasswordLength = 3
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameRequired   = errors.New("username is required")
	ErrUsernameTooShort   = fmt.Errorf("username must be at least %d characters long", MinUsernameLength)
	ErrUsernameTooLong    = fmt.Errorf("username must be at most %d characters long", MaxUsernameLength)
	ErrUsernameTaken      = errors.New("username must be unique")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("password must be at most %d bytes long", MaxPasswordBytes)
	ErrUserNotFound       = errors.New("user not found")
)

// Notifier receives domain events. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, subject string, payload any)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string, any) {}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// AuthService handles registration, login and token resolution.
type AuthService struct {
	users     repository.UserStore
	blogs     repository.BlogStore
	hasher    PasswordHasher
	jwtSecret string
	jwtExpiry time.Duration
	notifier  Notifier

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService. notifier may be nil.
func NewAuthService(users repository.UserStore, blogs repository.BlogStore, hasher PasswordHasher, secret string, expiry time.Duration, notifier Notifier) *AuthService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &AuthService{
		users:     users,
		blogs:     blogs,
		hasher:    hasher,
		jwtSecret: secret,
		jwtExpiry: expiry,
		notifier:  notifier,
	}
}

// Register validates the request, hashes the password and creates the user.
func (s *AuthService) Register(ctx context.Context, req model.CreateUserRequest) (model.UserResponse, error) {
	if err := validatePassword(req.Password); err != nil {
		return model.UserResponse{}, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return model.UserResponse{}, ErrUsernameRequired
	}
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return model.UserResponse{}, ErrUsernameTooShort
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return model.UserResponse{}, ErrUsernameTooLong
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		Username:     username,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return model.UserResponse{}, ErrUsernameTaken
		}
		return model.UserResponse{}, err
	}

	resp := toUserResponse(user, nil)
	s.notifier.Notify(ctx, events.SubjectUserRegistered, resp)

	return resp, nil
}

// Login verifies credentials and issues a token. Unknown usernames and wrong
// passwords return the same error. The username is trimmed the same way
// Register trims it.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.burnHash(req.Password)
			return model.LoginResponse{}, ErrInvalidCredentials
		}
		return model.LoginResponse{}, err
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return model.LoginResponse{}, err
	}
	if !match {
		return model.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.LoginResponse{}, err
	}

	return model.LoginResponse{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}

// Authenticate verifies token and resolves the user it was issued for.
// A well-signed token whose user no longer exists is invalid.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := crypto.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	id, err := model.ParseID(claims.UserID)
	if err != nil {
		return nil, crypto.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %s does not exist", crypto.ErrInvalidToken, id)
		}
		return nil, err
	}

	return user, nil
}

// ListUsers returns every user with the blogs they own.
func (s *AuthService) ListUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	blogs, err := s.blogs.List(ctx)
	if err != nil {
		return nil, err
	}

	owned := make(map[string][]model.Blog, len(users))
	for _, b := range blogs {
		owned[b.UserID] = append(owned[b.UserID], b)
	}

	result := make([]model.UserResponse, len(users))
	for i := range users {
		result[i] = toUserResponse(&users[i], owned[users[i].ID])
	}
	return result, nil
}

// GetUser returns one user with the blogs they own.
func (s *AuthService) GetUser(ctx context.Context, id string) (model.UserResponse, error) {
	id, err := model.ParseID(id)
	if err != nil {
		return model.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	blogs, err := s.blogs.ListByUser(ctx, id)
	if err != nil {
		return model.UserResponse{}, err
	}

	return toUserResponse(user, blogs), nil
}

func validatePassword(password string) error {
	switch {
	case password == "":
		return ErrPasswordRequired
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordBytes:
		return ErrPasswordTooLong
	}
	return nil
}

// burnHash runs a verification against a fixed hash so a login for an unknown
// username costs about as much as one with a wrong password.
func (s *AuthService) burnHash(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("bloglist-timing-equalizer")
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

func toUserResponse(u *model.User, blogs []model.Blog) model.UserResponse {
	summaries := make([]model.BlogSummary, len(blogs))
	for i, b := range blogs {
		summaries[i] = b.ToSummary()
	}
	return model.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Blogs:    summaries,
	}
}
