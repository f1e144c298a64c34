// Package mongorepo implements the user and blog stores on MongoDB.
package mongorepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	blogsCollection = "blogs"
)

// Connect opens a client for uri and returns the named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client.Database(database), nil
}

// indexModels lists the indexes each collection needs. The unique username
// index is what makes concurrent registrations of the same name fail.
func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		usersCollection: {{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uq_users_username"),
		}},
		blogsCollection: {{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetName("idx_blogs_user"),
		}},
	}
}

// EnsureIndexes creates any missing indexes. Creating an index that already
// exists with the same definition is a no-op, so it runs on every connect.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range indexModels() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// Migrate prepares the collections. MongoDB needs no schema beyond indexes.
func Migrate(ctx context.Context, db *mongo.Database) error {
	return EnsureIndexes(ctx, db)
}
