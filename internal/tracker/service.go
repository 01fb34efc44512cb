// Package tracker holds the exercise tracking rules: the user directory,
// exercise append validation and the log query engine. Persistence is
// supplied by a Store.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"exercise-tracker/internal/dates"
	"exercise-tracker/internal/models"
	"exercise-tracker/internal/storage"
)

// Store is the persistence the service needs. FindUserByID reports unknown
// ids with an error matching storage.ErrNotFound. FindExercisesByOwner
// returns exercises in the order they were added.
type Store interface {
	CreateUser(ctx context.Context, username string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	AddExercise(ctx context.Context, e models.Exercise) (models.Exercise, error)
	FindExercisesByOwner(ctx context.Context, ownerID string) ([]models.Exercise, error)
}

// ExerciseInput is an exercise as submitted, before validation.
type ExerciseInput struct {
	Description string
	Duration    string
	Date        string
}

type Service struct {
	store    Store
	now      func() time.Time
	logger   *slog.Logger
	limitCap int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithLimitCap sets the log size used when a query has no usable limit.
// Zero or less disables the cap.
func WithLimitCap(n int) Option {
	return func(s *Service) { s.limitCap = n }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		now:      time.Now,
		logger:   slog.Default(),
		limitCap: DefaultLimitCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateUser(ctx context.Context, username string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, ErrUsernameRequired
	}
	u, err := s.store.CreateUser(ctx, username)
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.DebugContext(ctx, "user created", "id", u.ID, "username", u.Username)
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// AddExercise records an exercise for ownerID. A blank date means today.
func (s *Service) AddExercise(ctx context.Context, ownerID string, in ExerciseInput) (models.ExerciseResult, error) {
	user, err := s.findUser(ctx, ownerID)
	if err != nil {
		return models.ExerciseResult{}, err
	}

	e, err := s.validate(in)
	if err != nil {
		return models.ExerciseResult{}, err
	}
	e.OwnerID = user.ID

	saved, err := s.store.AddExercise(ctx, e)
	if err != nil {
		return models.ExerciseResult{}, fmt.Errorf("add exercise: %w", err)
	}
	s.logger.DebugContext(ctx, "exercise added", "user_id", user.ID, "exercise_id", saved.ID)

	return models.ExerciseResult{
		Username:    user.Username,
		ID:          user.ID,
		Description: saved.Description,
		Duration:    saved.Duration,
		Date:        dates.Format(saved.Date),
	}, nil
}

// Log returns ownerID's exercises narrowed by f.
func (s *Service) Log(ctx context.Context, ownerID string, f LogFilter) (models.LogResult, error) {
	user, err := s.findUser(ctx, ownerID)
	if err != nil {
		return models.LogResult{}, err
	}
	exercises, err := s.store.FindExercisesByOwner(ctx, user.ID)
	if err != nil {
		return models.LogResult{}, fmt.Errorf("find exercises: %w", err)
	}
	return BuildLog(user, exercises, f, s.limitCap), nil
}

func (s *Service) findUser(ctx context.Context, id string) (models.User, error) {
	u, err := s.store.FindUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, ErrUserNotFound.wrap(err)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user %q: %w", id, err)
	}
	return u, nil
}

func (s *Service) validate(in ExerciseInput) (models.Exercise, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return models.Exercise{}, ErrExerciseFieldsRequired
	}
	duration, err := strconv.Atoi(strings.TrimSpace(in.Duration))
	if err != nil || duration < 0 {
		return models.Exercise{}, ErrExerciseFieldsRequired
	}

	date := dates.Today(s.now)
	if strings.TrimSpace(in.Date) != "" {
		date, err = dates.Parse(in.Date)
		if err != nil {
			return models.Exercise{}, ErrInvalidDate.wrap(err)
		}
	}

	return models.Exercise{
		Description: description,
		Duration:    duration,
		Date:        date,
	}, nil
}
