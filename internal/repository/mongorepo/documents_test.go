package mongorepo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bloglist/bloglist-go/internal/model"
)

func TestUpdateDocument(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	title := "Canonical string reduction"
	likes := 0

	doc := updateDocument(model.BlogUpdate{Title: &title, Likes: &likes}, now)

	set, ok := doc["$set"].(bson.M)
	require.True(t, ok, "expected $set document")
	assert.Equal(t, bson.M{"title": title, "likes": 0, "updatedAt": now}, set)
}

func TestUpdateDocumentEmptyOnlyTouchesTimestamp(t *testing.T) {
	now := time.Now()
	doc := updateDocument(model.BlogUpdate{}, now)
	assert.Equal(t, bson.M{"$set": bson.M{"updatedAt": now}}, doc)
}

func TestBlogDocumentToEntity(t *testing.T) {
	owner := primitive.NewObjectID()
	id := primitive.NewObjectID()

	b := blogDocument{ID: id, Title: "React patterns", URL: "https://reactpatterns.com/", Likes: 7, User: owner}.toEntity()

	assert.Equal(t, id.Hex(), b.ID)
	assert.Equal(t, owner.Hex(), b.UserID)
	assert.Equal(t, 7, b.Likes)
	assert.Nil(t, b.User)
}

func TestObjectID(t *testing.T) {
	id := model.NewID()
	oid, ok := objectID(id)
	require.True(t, ok)
	assert.Equal(t, id, oid.Hex())

	_, ok = objectID("no-such-id")
	assert.False(t, ok)
}

func TestIndexModelsUniqueUsername(t *testing.T) {
	models := indexModels()

	users := models[usersCollection]
	require.Len(t, users, 1)
	assert.Equal(t, bson.D{{Key: "username", Value: 1}}, users[0].Keys)
	require.NotNil(t, users[0].Options.Unique)
	assert.True(t, *users[0].Options.Unique)

	blogs := models[blogsCollection]
	require.Len(t, blogs, 1)
	assert.Equal(t, bson.D{{Key: "user", Value: 1}}, blogs[0].Keys)
	assert.Nil(t, blogs[0].Options.Unique)
}
