package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"exercise-tracker/internal/models"
)

const pgForeignKeyViolation = "23503"

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT UNIQUE NOT NULL,
		username TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS exercises (
		id BIGSERIAL PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id),
		description TEXT NOT NULL,
		duration BIGINT NOT NULL CHECK (duration >= 0),
		date DATE NOT NULL
	)`,
	`ALTER TABLE exercises ALTER COLUMN duration TYPE BIGINT`,
	`CREATE INDEX IF NOT EXISTS exercises_owner_id_idx ON exercises (owner_id, id)`,
}

// Postgres stores data in PostgreSQL through the pgx database/sql driver.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range postgresSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) CreateUser(ctx context.Context, username string) (models.User, error) {
	u := models.User{ID: uuid.NewString(), Username: username}
	_, err := p.db.ExecContext(ctx, `INSERT INTO users (id, username) VALUES ($1, $2)`, u.ID, u.Username)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, username FROM users ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (p *Postgres) FindUserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := p.db.QueryRowContext(ctx, `SELECT id, username FROM users WHERE id = $1`, id).Scan(&u.ID, &u.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (p *Postgres) AddExercise(ctx context.Context, e models.Exercise) (models.Exercise, error) {
	var id int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO exercises (owner_id, description, duration, date) VALUES ($1, $2, $3, $4) RETURNING id`,
		e.OwnerID, e.Description, e.Duration, e.Date.UTC(),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return models.Exercise{}, fmt.Errorf("user %s: %w", e.OwnerID, ErrNotFound)
		}
		return models.Exercise{}, fmt.Errorf("insert exercise: %w", err)
	}
	e.ID = strconv.FormatInt(id, 10)
	return e, nil
}

func (p *Postgres) FindExercisesByOwner(ctx context.Context, ownerID string) ([]models.Exercise, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, owner_id, description, duration, date FROM exercises WHERE owner_id = $1 ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select exercises: %w", err)
	}
	defer rows.Close()

	out := []models.Exercise{}
	for rows.Next() {
		var (
			e  models.Exercise
			id int64
		)
		if err := rows.Scan(&id, &e.OwnerID, &e.Description, &e.Duration, &e.Date); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		e.ID = strconv.FormatInt(id, 10)
		e.Date = e.Date.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercises: %w", err)
	}
	return out, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
