package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloglist/bloglist-go/internal/events"
	"github.com/bloglist/bloglist-go/internal/model"
)

type blogFixture struct {
	svc      *BlogService
	users    *fakeUserStore
	blogs    *fakeBlogStore
	cache    *fakeCache
	notifier *recordingNotifier
	owner    *model.User
	other    *model.User
}

func newBlogFixture(t *testing.T) *blogFixture {
	t.Helper()
	ctx := context.Background()
	users := &fakeUserStore{}
	f := &blogFixture{
		users:    users,
		blogs:    &fakeBlogStore{users: users},
		cache:    &fakeCache{},
		notifier: &recordingNotifier{},
		owner:    &model.User{Username: "root", Name: "Garry Root", PasswordHash: "x"},
		other:    &model.User{Username: "mluukkai", Name: "Matti", PasswordHash: "x"},
	}
	require.NoError(t, users.Create(ctx, f.owner))
	require.NoError(t, users.Create(ctx, f.other))
	f.svc = NewBlogService(f.blogs, f.cache, f.notifier, nil)
	return f
}

func intPtr(v int) *int { return &v }
func strPtr(s string) *string { return &s }

func (f *blogFixture) create(t *testing.T, title string, likes int) model.BlogResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.owner, model.BlogRequest{
		Title:  title,
		Author: "Robert C. Martin",
		URL:    "http://blog.cleancoder.com",
		Likes:  intPtr(likes),
	})
	require.NoError(t, err)
	return resp
}

func TestBlogCreate(t *testing.T) {
	f := newBlogFixture(t)

	resp := f.create(t, "Type wars", 2)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 2, resp.Likes)
	require.NotNil(t, resp.User)
	assert.Equal(t, "root", resp.User.Username)
	assert.Equal(t, f.owner.ID, resp.User.ID)
	assert.Equal(t, f.owner.ID, f.blogs.blogs[0].UserID)
	assert.Equal(t, []string{events.SubjectBlogCreated}, f.notifier.subjects)
	assert.Equal(t, 1, f.cache.invalidated)
}

func TestBlogCreate_LikesDefaultToZero(t *testing.T) {
	f := newBlogFixture(t)

	resp, err := f.svc.Create(context.Background(), f.owner, model.BlogRequest{Title: "t", URL: "http://u"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Likes)
}

func TestBlogCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		user bool
		req  model.BlogRequest
		want error
	}{
		{"no identity", false, model.BlogRequest{Title: "t", URL: "http://u"}, ErrAuthRequired},
		{"missing title", true, model.BlogRequest{URL: "http://u"}, ErrTitleRequired},
		{"blank title", true, model.BlogRequest{Title: "  ", URL: "http://u"}, ErrTitleRequired},
		{"missing url", true, model.BlogRequest{Title: "t"}, ErrURLRequired},
		{"negative likes", true, model.BlogRequest{Title: "t", URL: "http://u", Likes: intPtr(-1)}, ErrLikesNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBlogFixture(t)
			var user *model.User
			if tt.user {
				user = f.owner
			}
			_, err := f.svc.Create(context.Background(), user, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.blogs.blogs)
		})
	}
}

func TestBlogList_UsesCache(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	f.create(t, "Type wars", 2)

	first, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, f.cache.cached())

	f.blogs.blogs = nil
	cached, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	f.create(t, "React patterns", 7)
	fresh, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
	assert.Equal(t, "React patterns", fresh[0].Title)
}

func TestBlogList_WriteDuringReadIsNotCachedStale(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	gated := &gatedBlogStore{
		fakeBlogStore: f.blogs,
		listed:        make(chan struct{}),
		release:       make(chan struct{}),
	}
	svc := NewBlogService(gated, f.cache, nil, nil)

	type result struct {
		blogs []model.BlogResponse
		err   error
	}
	done := make(chan result, 1)
	go func() {
		blogs, err := svc.List(ctx)
		done <- result{blogs, err}
	}()

	<-gated.listed
	_, err := svc.Create(ctx, f.owner, model.BlogRequest{Title: "Type wars", URL: "http://u"})
	require.NoError(t, err)
	close(gated.release)

	stale := <-done
	require.NoError(t, stale.err)
	assert.Empty(t, stale.blogs)

	fresh, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "Type wars", fresh[0].Title)
}

func TestBlogList_WithoutCache(t *testing.T) {
	f := newBlogFixture(t)
	svc := NewBlogService(f.blogs, nil, nil, nil)
	_, err := svc.Create(context.Background(), f.owner, model.BlogRequest{Title: "t", URL: "http://u"})
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "root", list[0].User.Username)
}

func TestBlogGet(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	created := f.create(t, "Type wars", 2)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = f.svc.Get(ctx, "no-such-id")
	assert.ErrorIs(t, err, model.ErrMalformedID)

	_, err = f.svc.Get(ctx, model.NewID())
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestBlogUpdate(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	created := f.create(t, "Type wars", 2)

	updated, err := f.svc.Update(ctx, created.ID, model.BlogUpdate{Likes: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Likes)
	assert.Equal(t, "Type wars", updated.Title)
	assert.Equal(t, f.owner.ID, updated.User.ID)
	assert.Contains(t, f.notifier.subjects, events.SubjectBlogUpdated)

	_, err = f.svc.Update(ctx, created.ID, model.BlogUpdate{Title: strPtr("")})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = f.svc.Update(ctx, created.ID, model.BlogUpdate{URL: strPtr(" ")})
	assert.ErrorIs(t, err, ErrURLRequired)

	_, err = f.svc.Update(ctx, created.ID, model.BlogUpdate{Likes: intPtr(-3)})
	assert.ErrorIs(t, err, ErrLikesNegative)

	_, err = f.svc.Update(ctx, "no-such-id", model.BlogUpdate{Likes: intPtr(1)})
	assert.ErrorIs(t, err, model.ErrMalformedID)

	_, err = f.svc.Update(ctx, model.NewID(), model.BlogUpdate{Likes: intPtr(1)})
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestBlogDelete(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	created := f.create(t, "Type wars", 2)

	assert.ErrorIs(t, f.svc.Delete(ctx, nil, created.ID), ErrAuthRequired)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.owner, "no-such-id"), model.ErrMalformedID)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.owner, model.NewID()), ErrBlogNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.other, created.ID), ErrForbidden)
	require.Len(t, f.blogs.blogs, 1)

	require.NoError(t, f.svc.Delete(ctx, f.owner, created.ID))
	assert.Empty(t, f.blogs.blogs)
	assert.Contains(t, f.notifier.subjects, events.SubjectBlogDeleted)

	owned, err := f.blogs.ListByUser(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, owned)
}

func TestBlogStats(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	empty, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalLikes)
	assert.Nil(t, empty.Favorite)

	f.create(t, "React patterns", 7)
	f.create(t, "Type wars", 2)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, stats.TotalLikes)
	require.NotNil(t, stats.Favorite)
	assert.Equal(t, "React patterns", stats.Favorite.Title)
}
