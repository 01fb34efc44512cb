package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"exercise-tracker/internal/models"
)

// Memory keeps everything in process. Data is lost on exit.
type Memory struct {
	mu        sync.RWMutex
	users     []models.User
	byID      map[string]int
	exercises map[string][]models.Exercise
}

func NewMemory() *Memory {
	return &Memory{
		byID:      make(map[string]int),
		exercises: make(map[string][]models.Exercise),
	}
}

func (m *Memory) CreateUser(_ context.Context, username string) (models.User, error) {
	u := models.User{ID: uuid.NewString(), Username: username}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[u.ID] = len(m.users)
	m.users = append(m.users, u)
	return u, nil
}

func (m *Memory) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *Memory) FindUserByID(_ context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.byID[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return m.users[i], nil
}

func (m *Memory) AddExercise(_ context.Context, e models.Exercise) (models.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[e.OwnerID]; !ok {
		return models.Exercise{}, ErrNotFound
	}
	e.ID = uuid.NewString()
	m.exercises[e.OwnerID] = append(m.exercises[e.OwnerID], e)
	return e, nil
}

func (m *Memory) FindExercisesByOwner(_ context.Context, ownerID string) ([]models.Exercise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.exercises[ownerID]
	out := make([]models.Exercise, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *Memory) Close() error { return nil }
