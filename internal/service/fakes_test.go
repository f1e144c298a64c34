package service

import (
	"context"
	"sync"
	"time"

	"github.com/bloglist/bloglist-go/internal/model"
	"github.com/bloglist/bloglist-go/internal/repository"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users []model.User
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
	}
	u.ID = model.NewID()
	u.CreatedAt = time.Now().UTC()
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) List(context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.User(nil), f.users...), nil
}

type fakeBlogStore struct {
	mu    sync.Mutex
	users *fakeUserStore
	blogs []model.Blog
}

func (f *fakeBlogStore) withOwner(b model.Blog) model.Blog {
	if u, err := f.users.GetByID(context.Background(), b.UserID); err == nil {
		b.User = u.Summary()
	}
	return b
}

func (f *fakeBlogStore) Create(_ context.Context, b *model.Blog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = model.NewID()
	f.blogs = append(f.blogs, *b)
	return nil
}

func (f *fakeBlogStore) GetByID(_ context.Context, id string) (*model.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.blogs {
		if b.ID == id {
			b = f.withOwner(b)
			return &b, nil
		}
	}
	return nil, repository.ErrBlogNotFound
}

func (f *fakeBlogStore) List(context.Context) ([]model.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]model.Blog, len(f.blogs))
	for i, b := range f.blogs {
		result[i] = f.withOwner(b)
	}
	return result, nil
}

func (f *fakeBlogStore) ListByUser(_ context.Context, userID string) ([]model.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []model.Blog
	for _, b := range f.blogs {
		if b.UserID == userID {
			result = append(result, f.withOwner(b))
		}
	}
	return result, nil
}

func (f *fakeBlogStore) Update(_ context.Context, id string, upd model.BlogUpdate) (*model.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.blogs {
		if f.blogs[i].ID != id {
			continue
		}
		b := &f.blogs[i]
		if upd.Title != nil {
			b.Title = *upd.Title
		}
		if upd.Author != nil {
			b.Author = *upd.Author
		}
		if upd.URL != nil {
			b.URL = *upd.URL
		}
		if upd.Likes != nil {
			b.Likes = *upd.Likes
		}
		out := f.withOwner(*b)
		return &out, nil
	}
	return nil, repository.ErrBlogNotFound
}

func (f *fakeBlogStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.blogs {
		if b.ID == id {
			f.blogs = append(f.blogs[:i], f.blogs[i+1:]...)
			return nil
		}
	}
	return repository.ErrBlogNotFound
}

type fakeCache struct {
	mu          sync.Mutex
	gen         int64
	entries     map[int64][]model.BlogResponse
	invalidated int
}

func (c *fakeCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *fakeCache) Blogs(_ context.Context, gen int64) ([]model.BlogResponse, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	blogs, ok := c.entries[gen]
	return blogs, ok, nil
}

func (c *fakeCache) SetBlogs(_ context.Context, gen int64, blogs []model.BlogResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[int64][]model.BlogResponse)
	}
	c.entries[gen] = blogs
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidated++
	return nil
}

func (c *fakeCache) cached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[c.gen]
	return ok
}

// gatedBlogStore pauses List after it has read the store, until release is
// closed.
type gatedBlogStore struct {
	*fakeBlogStore
	listed  chan struct{}
	release chan struct{}
}

func (g *gatedBlogStore) List(ctx context.Context) ([]model.Blog, error) {
	blogs, err := g.fakeBlogStore.List(ctx)
	close(g.listed)
	<-g.release
	return blogs, err
}

type recordingNotifier struct {
	subjects []string
}

func (n *recordingNotifier) Notify(_ context.Context, subject string, _ any) {
	n.subjects = append(n.subjects, subject)
}
