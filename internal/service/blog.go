package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bloglist/bloglist-go/internal/events"
	"github.com/bloglist/bloglist-go/internal/model"
	"github.com/bloglist/bloglist-go/internal/repository"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrURLRequired   = errors.New("url is required")
	ErrLikesNegative = errors.New("likes must not be negative")
	ErrAuthRequired  = errors.New("token missing or invalid")
	ErrForbidden     = errors.New("only the creator can delete a blog")
	ErrBlogNotFound  = errors.New("blog not found")
)

// BlogCache holds the serialized blog list between mutations. Lists are keyed
// by a generation that Invalidate advances, so a list read from the store
// before a concurrent write is stored under a generation that is already stale.
type BlogCache interface {
	Generation(ctx context.Context) (int64, error)
	Blogs(ctx context.Context, gen int64) ([]model.BlogResponse, bool, error)
	SetBlogs(ctx context.Context, gen int64, blogs []model.BlogResponse) error
	Invalidate(ctx context.Context) error
}

// BlogService handles blog business logic.
type BlogService struct {
	blogs    repository.BlogStore
	cache    BlogCache
	notifier Notifier
	logger   *slog.Logger
}

// NewBlogService creates a new BlogService. cache and notifier may be nil.
func NewBlogService(blogs repository.BlogStore, cache BlogCache, notifier Notifier, logger *slog.Logger) *BlogService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BlogService{blogs: blogs, cache: cache, notifier: notifier, logger: logger}
}

// List returns every blog in creation order with its owner expanded.
// Cache failures are logged and fall through to the store.
func (s *BlogService) List(ctx context.Context) ([]model.BlogResponse, error) {
	// The generation is taken before the store read. A write that commits
	// after this point advances it, leaving the list below unreachable.
	cacheable := false
	var gen int64
	if s.cache != nil {
		var err error
		gen, err = s.cache.Generation(ctx)
		if err != nil {
			s.logger.Warn("blog cache read failed", "error", err)
		} else {
			cacheable = true
			cached, ok, err := s.cache.Blogs(ctx, gen)
			if err != nil {
				s.logger.Warn("blog cache read failed", "error", err)
			} else if ok {
				return cached, nil
			}
		}
	}

	blogs, err := s.blogs.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.BlogResponse, len(blogs))
	for i, b := range blogs {
		result[i] = b.ToResponse()
	}

	if cacheable {
		if err := s.cache.SetBlogs(ctx, gen, result); err != nil {
			s.logger.Warn("blog cache write failed", "error", err)
		}
	}

	return result, nil
}

// Get returns a single blog.
func (s *BlogService) Get(ctx context.Context, id string) (model.BlogResponse, error) {
	blog, err := s.lookup(ctx, id)
	if err != nil {
		return model.BlogResponse{}, err
	}
	return blog.ToResponse(), nil
}

// Create stores a new blog owned by user. Any owner sent by the client is
// ignored.
func (s *BlogService) Create(ctx context.Context, user *model.User, req model.BlogRequest) (model.BlogResponse, error) {
	if user == nil {
		return model.BlogResponse{}, ErrAuthRequired
	}
	if strings.TrimSpace(req.Title) == "" {
		return model.BlogResponse{}, ErrTitleRequired
	}
	if strings.TrimSpace(req.URL) == "" {
		return model.BlogResponse{}, ErrURLRequired
	}

	likes := 0
	if req.Likes != nil {
		likes = *req.Likes
	}
	if likes < 0 {
		return model.BlogResponse{}, ErrLikesNegative
	}

	blog := &model.Blog{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  likes,
		UserID: user.ID,
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return model.BlogResponse{}, err
	}
	blog.User = user.Summary()

	resp := blog.ToResponse()
	s.invalidate(ctx)
	s.notifier.Notify(ctx, events.SubjectBlogCreated, resp)

	return resp, nil
}

// Update applies a partial update to a blog. It performs no ownership check.
func (s *BlogService) Update(ctx context.Context, id string, upd model.BlogUpdate) (model.BlogResponse, error) {
	id, err := model.ParseID(id)
	if err != nil {
		return model.BlogResponse{}, err
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return model.BlogResponse{}, ErrTitleRequired
	}
	if upd.URL != nil && strings.TrimSpace(*upd.URL) == "" {
		return model.BlogResponse{}, ErrURLRequired
	}
	if upd.Likes != nil && *upd.Likes < 0 {
		return model.BlogResponse{}, ErrLikesNegative
	}

	blog, err := s.blogs.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return model.BlogResponse{}, ErrBlogNotFound
		}
		return model.BlogResponse{}, err
	}

	resp := blog.ToResponse()
	if !upd.Empty() {
		s.invalidate(ctx)
		s.notifier.Notify(ctx, events.SubjectBlogUpdated, resp)
	}

	return resp, nil
}

// Delete removes a blog. Only its creator may delete it.
func (s *BlogService) Delete(ctx context.Context, user *model.User, id string) error {
	if user == nil {
		return ErrAuthRequired
	}

	blog, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	if blog.UserID != user.ID {
		return ErrForbidden
	}

	if err := s.blogs.Delete(ctx, blog.ID); err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return ErrBlogNotFound
		}
		return err
	}

	s.invalidate(ctx)
	s.notifier.Notify(ctx, events.SubjectBlogDeleted, model.BlogDeletedEvent{ID: blog.ID, UserID: blog.UserID})

	return nil
}

// Stats summarizes likes over all blogs.
func (s *BlogService) Stats(ctx context.Context) (model.BlogStats, error) {
	blogs, err := s.List(ctx)
	if err != nil {
		return model.BlogStats{}, err
	}
	return model.BlogStats{
		TotalLikes: TotalLikes(blogs),
		Favorite:   FavoriteBlog(blogs),
	}, nil
}

func (s *BlogService) lookup(ctx context.Context, id string) (*model.Blog, error) {
	id, err := model.ParseID(id)
	if err != nil {
		return nil, err
	}

	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return blog, nil
}

func (s *BlogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("blog cache invalidation failed", "error", err)
	}
}
