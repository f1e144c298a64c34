package mongorepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bloglist/bloglist-go/internal/model"
	"github.com/bloglist/bloglist-go/internal/repository"
)

// BlogRepository stores blogs in their own collection. Owners are resolved with
// a second query on the users collection rather than $lookup.
type BlogRepository struct {
	blogs *mongo.Collection
	users *mongo.Collection
}

var _ repository.BlogStore = (*BlogRepository)(nil)

// NewBlogRepository creates a BlogRepository on db.
func NewBlogRepository(db *mongo.Database) *BlogRepository {
	return &BlogRepository{
		blogs: db.Collection(blogsCollection),
		users: db.Collection(usersCollection),
	}
}

// Create inserts blog and fills in its timestamps.
func (r *BlogRepository) Create(ctx context.Context, blog *model.Blog) error {
	if blog.ID == "" {
		blog.ID = model.NewID()
	}
	oid, ok := objectID(blog.ID)
	if !ok {
		return model.ErrMalformedID
	}
	owner, ok := objectID(blog.UserID)
	if !ok {
		return repository.ErrUserNotFound
	}

	now := time.Now().UTC()
	doc := blogDocument{
		ID:        oid,
		Title:     blog.Title,
		Author:    blog.Author,
		URL:       blog.URL,
		Likes:     blog.Likes,
		User:      owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.blogs.InsertOne(ctx, doc); err != nil {
		return err
	}

	blog.CreatedAt = now
	blog.UpdatedAt = now
	return nil
}

// GetByID returns the blog with id or repository.ErrBlogNotFound.
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*model.Blog, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repository.ErrBlogNotFound
	}

	var doc blogDocument
	if err := r.blogs.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrBlogNotFound
		}
		return nil, err
	}

	blogs, err := r.withOwners(ctx, []blogDocument{doc})
	if err != nil {
		return nil, err
	}
	return &blogs[0], nil
}

// List returns all blogs in creation order.
func (r *BlogRepository) List(ctx context.Context) ([]model.Blog, error) {
	return r.find(ctx, bson.M{})
}

// ListByUser returns the blogs owned by userID.
func (r *BlogRepository) ListByUser(ctx context.Context, userID string) ([]model.Blog, error) {
	oid, ok := objectID(userID)
	if !ok {
		return nil, nil
	}
	return r.find(ctx, bson.M{"user": oid})
}

// Update sets the fields present in upd and returns the updated blog.
func (r *BlogRepository) Update(ctx context.Context, id string, upd model.BlogUpdate) (*model.Blog, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repository.ErrBlogNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc blogDocument
	err := r.blogs.FindOneAndUpdate(ctx, bson.M{"_id": oid}, updateDocument(upd, time.Now().UTC()), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrBlogNotFound
		}
		return nil, err
	}

	blogs, err := r.withOwners(ctx, []blogDocument{doc})
	if err != nil {
		return nil, err
	}
	return &blogs[0], nil
}

// Delete removes the blog with id or returns repository.ErrBlogNotFound.
func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return repository.ErrBlogNotFound
	}

	res, err := r.blogs.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrBlogNotFound
	}
	return nil
}

func (r *BlogRepository) find(ctx context.Context, filter bson.M) ([]model.Blog, error) {
	cur, err := r.blogs.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []blogDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return r.withOwners(ctx, docs)
}

// withOwners converts docs and fills in owner summaries with one $in query.
func (r *BlogRepository) withOwners(ctx context.Context, docs []blogDocument) ([]model.Blog, error) {
	blogs := make([]model.Blog, len(docs))
	if len(docs) == 0 {
		return blogs, nil
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	seen := make(map[primitive.ObjectID]bool, len(docs))
	for _, d := range docs {
		if !seen[d.User] {
			seen[d.User] = true
			ids = append(ids, d.User)
		}
	}

	cur, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"username": 1, "name": 1}))
	if err != nil {
		return nil, err
	}
	var owners []userDocument
	if err := cur.All(ctx, &owners); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*model.UserSummary, len(owners))
	for _, o := range owners {
		byID[o.ID] = &model.UserSummary{ID: o.ID.Hex(), Username: o.Username, Name: o.Name}
	}

	for i, d := range docs {
		blogs[i] = d.toEntity()
		blogs[i].User = byID[d.User]
	}
	return blogs, nil
}
