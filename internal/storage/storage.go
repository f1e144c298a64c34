// Package storage opens the user and blog stores selected by configuration.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/bloglist/bloglist-go/internal/config"
	"github.com/bloglist/bloglist-go/internal/repository"
	"github.com/bloglist/bloglist-go/internal/repository/gormrepo"
	"github.com/bloglist/bloglist-go/internal/repository/mongorepo"
)

// Store bundles the stores of one backend with its lifecycle hooks.
type Store struct {
	Driver string
	Users  repository.UserStore
	Blogs  repository.BlogStore

	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Open connects to the backend named by cfg.StoreDriver. MongoDB indexes are
// ensured on every open so uniqueness holds even without a migrate step.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return newSQLStore(db), nil

	case config.DriverSQLite, config.DriverPostgres:
		db, err := gormrepo.Open(cfg.StoreDriver, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, err
		}
		return NewGormStore(cfg.StoreDriver, db), nil

	case config.DriverMongo:
		db, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = db.Client().Disconnect(context.Background())
			return nil, err
		}
		return newMongoStore(db), nil

	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.StoreDriver)
	}
}

func newSQLStore(db *sql.DB) *Store {
	return &Store{
		Driver:  config.DriverMySQL,
		Users:   repository.NewUserRepository(db),
		Blogs:   repository.NewBlogRepository(db),
		migrate: func(ctx context.Context) error { return repository.Migrate(ctx, db) },
		close:   func(context.Context) error { return db.Close() },
	}
}

// NewGormStore wraps an already opened GORM database.
func NewGormStore(driver string, db *gorm.DB) *Store {
	return &Store{
		Driver:  driver,
		Users:   gormrepo.NewUserRepository(db),
		Blogs:   gormrepo.NewBlogRepository(db),
		migrate: func(ctx context.Context) error { return gormrepo.Migrate(db.WithContext(ctx)) },
		close:   func(context.Context) error { return gormrepo.Close(db) },
	}
}

func newMongoStore(db *mongo.Database) *Store {
	return &Store{
		Driver:  config.DriverMongo,
		Users:   mongorepo.NewUserRepository(db),
		Blogs:   mongorepo.NewBlogRepository(db),
		migrate: func(ctx context.Context) error { return mongorepo.Migrate(ctx, db) },
		close:   func(ctx context.Context) error { return db.Client().Disconnect(ctx) },
	}
}

// Migrate creates the schema (tables or indexes) for the backend.
func (s *Store) Migrate(ctx context.Context) error {
	return s.migrate(ctx)
}

// Close releases the backend's connections.
func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
