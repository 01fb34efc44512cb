// Package storage persists users and exercises. Every backend returns users
// in creation order and a user's exercises in the order they were added.
package storage

import (
	"context"
	"errors"
	"fmt"

	"exercise-tracker/internal/config"
	"exercise-tracker/internal/models"
)

var ErrNotFound = errors.New("storage: record not found")

// Backend is implemented by every store in this package.
type Backend interface {
	CreateUser(ctx context.Context, username string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	AddExercise(ctx context.Context, e models.Exercise) (models.Exercise, error)
	FindExercisesByOwner(ctx context.Context, ownerID string) ([]models.Exercise, error)
	Close() error
}

// Open connects to the backend named by cfg.Driver and prepares its schema.
func Open(ctx context.Context, cfg config.Storage) (Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverSQLite:
		return NewSQLite(cfg.SQLitePath)
	case config.DriverPostgres:
		return NewPostgres(ctx, cfg.PostgresDSN)
	case config.DriverMongo:
		return NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
