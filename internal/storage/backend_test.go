package storage

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exercise-tracker/internal/config"
	"exercise-tracker/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// runBackendSuite checks the behaviour every backend must share. Backends
// that may already hold data (postgres, mongo) are only compared on the
// records the suite itself creates.
func runBackendSuite(t *testing.T, newBackend func(t *testing.T) Backend) {
	t.Run("CreateAndFindUser", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		u, err := b.CreateUser(ctx, "alice")
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "alice", u.Username)

		got, err := b.FindUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u, got)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		for _, id := range []string{"999", uuid.NewString(), "65a1b2c3d4e5f60718293a4b", ""} {
			_, err := b.FindUserByID(ctx, id)
			assert.ErrorIs(t, err, ErrNotFound, "id %q", id)
		}
	})

	t.Run("ListUsersInCreationOrder", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		var want []string
		for i := 0; i < 3; i++ {
			u, err := b.CreateUser(ctx, fmt.Sprintf("user-%d", i))
			require.NoError(t, err)
			want = append(want, u.ID)
		}

		users, err := b.ListUsers(ctx)
		require.NoError(t, err)

		mine := make(map[string]bool)
		for _, id := range want {
			mine[id] = true
		}
		var got []string
		for _, u := range users {
			if mine[u.ID] {
				got = append(got, u.ID)
			}
		}
		assert.Equal(t, want, got)
	})

	t.Run("ExercisesInAppendOrder", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		alice, err := b.CreateUser(ctx, "alice")
		require.NoError(t, err)
		bob, err := b.CreateUser(ctx, "bob")
		require.NoError(t, err)

		// Dates deliberately out of order: storage order is append order.
		inputs := []models.Exercise{
			{OwnerID: alice.ID, Description: "run", Duration: 30, Date: day(2023, time.February, 1)},
			{OwnerID: alice.ID, Description: "swim", Duration: 45, Date: day(2023, time.January, 1)},
			{OwnerID: bob.ID, Description: "lift", Duration: 20, Date: day(2023, time.January, 5)},
			{OwnerID: alice.ID, Description: "bike", Duration: 0, Date: day(2023, time.January, 15)},
		}
		for _, in := range inputs {
			saved, err := b.AddExercise(ctx, in)
			require.NoError(t, err)
			assert.NotEmpty(t, saved.ID)
			assert.Equal(t, in.Description, saved.Description)
		}

		got, err := b.FindExercisesByOwner(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"run", "swim", "bike"}, []string{got[0].Description, got[1].Description, got[2].Description})
		assert.Equal(t, alice.ID, got[1].OwnerID)
		assert.Equal(t, 45, got[1].Duration)
		assert.True(t, day(2023, time.January, 1).Equal(got[1].Date), "date round-trip: %v", got[1].Date)
		assert.Equal(t, time.UTC, got[1].Date.Location())

		none, err := b.FindExercisesByOwner(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("LargeDuration", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		u, err := b.CreateUser(ctx, "ultra")
		require.NoError(t, err)
		_, err = b.AddExercise(ctx, models.Exercise{OwnerID: u.ID, Description: "ultramarathon", Duration: 3_000_000_000, Date: day(2023, time.June, 1)})
		require.NoError(t, err)

		got, err := b.FindExercisesByOwner(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 3_000_000_000, got[0].Duration)
	})

	t.Run("AddExerciseUnknownOwner", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		owner := uuid.NewString()
		_, err := b.AddExercise(ctx, models.Exercise{OwnerID: owner, Description: "run", Duration: 10, Date: day(2023, time.January, 1)})
		assert.ErrorIs(t, err, ErrNotFound)

		got, err := b.FindExercisesByOwner(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ConcurrentAppends", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		u, err := b.CreateUser(ctx, "busy")
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := b.AddExercise(ctx, models.Exercise{OwnerID: u.ID, Description: fmt.Sprintf("set %d", i), Duration: i, Date: day(2023, time.March, 1)})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		got, err := b.FindExercisesByOwner(ctx, u.ID)
		require.NoError(t, err)
		assert.Len(t, got, 10)
	})
}

func TestMemoryBackend(t *testing.T) {
	runBackendSuite(t, func(t *testing.T) Backend {
		return NewMemory()
	})
}

func TestSQLiteBackend(t *testing.T) {
	runBackendSuite(t, func(t *testing.T) Backend {
		s, err := NewSQLite(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSQLiteBackend_PersistsToFile(t *testing.T) {
	path := t.TempDir() + "/tracker.db"
	ctx := context.Background()

	s, err := NewSQLite(path)
	require.NoError(t, err)
	u, err := s.CreateUser(ctx, "alice")
	require.NoError(t, err)
	_, err = s.AddExercise(ctx, models.Exercise{OwnerID: u.ID, Description: "run", Duration: 30, Date: day(2023, time.January, 1)})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	exercises, err := reopened.FindExercisesByOwner(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, exercises, 1)
}

func TestPostgresBackend(t *testing.T) {
	dsn := os.Getenv("TRACKER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TRACKER_TEST_POSTGRES_DSN not set")
	}
	runBackendSuite(t, func(t *testing.T) Backend {
		p, err := NewPostgres(context.Background(), dsn)
		require.NoError(t, err)
		t.Cleanup(func() { p.Close() })
		return p
	})
}

func TestMongoBackend(t *testing.T) {
	uri := os.Getenv("TRACKER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TRACKER_TEST_MONGO_URI not set")
	}
	runBackendSuite(t, func(t *testing.T) Backend {
		ctx := context.Background()
		m, err := NewMongo(ctx, uri, "tracker_test_"+uuid.NewString()[:8])
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = m.users.Database().Drop(ctx)
			m.Close()
		})
		return m
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, config.Storage{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, b)
	require.NoError(t, b.Close())

	b, err = Open(ctx, config.Storage{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, b)
	require.NoError(t, b.Close())

	_, err = Open(ctx, config.Storage{Driver: "redis"})
	assert.ErrorContains(t, err, `unknown driver "redis"`)
}
