package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"exercise-tracker/internal/models"
)

type userRecord struct {
	Seq      uint64 `gorm:"primaryKey;autoIncrement"`
	ID       string `gorm:"uniqueIndex;size:36;not null"`
	Username string `gorm:"not null"`
}

func (userRecord) TableName() string { return "users" }

type exerciseRecord struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	OwnerID     string    `gorm:"index;size:36;not null"`
	Description string    `gorm:"not null"`
	Duration    int       `gorm:"not null"`
	Date        time.Time `gorm:"not null"`
}

func (exerciseRecord) TableName() string { return "exercises" }

// SQLite stores data in a SQLite file through gorm. ":memory:" gives a
// private in-memory database.
type SQLite struct {
	sqlDB *sql.DB
	db    *gorm.DB
}

func NewSQLite(filepath string) (*SQLite, error) {
	sqlDB, err := sql.Open("sqlite3", filepath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", filepath, err)
	}
	// One connection keeps ":memory:" a single database and serialises writers.
	sqlDB.SetMaxOpenConns(1)

	db, err := gorm.Open(&sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	if err := db.AutoMigrate(&userRecord{}, &exerciseRecord{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLite{sqlDB: sqlDB, db: db}, nil
}

func (s *SQLite) CreateUser(ctx context.Context, username string) (models.User, error) {
	rec := userRecord{ID: uuid.NewString(), Username: username}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return models.User{ID: rec.ID, Username: rec.Username}, nil
}

func (s *SQLite) ListUsers(ctx context.Context) ([]models.User, error) {
	var recs []userRecord
	if err := s.db.WithContext(ctx).Order("seq").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	users := make([]models.User, 0, len(recs))
	for _, r := range recs {
		users = append(users, models.User{ID: r.ID, Username: r.Username})
	}
	return users, nil
}

func (s *SQLite) FindUserByID(ctx context.Context, id string) (models.User, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("select user: %w", err)
	}
	return models.User{ID: rec.ID, Username: rec.Username}, nil
}

func (s *SQLite) AddExercise(ctx context.Context, e models.Exercise) (models.Exercise, error) {
	rec := exerciseRecord{
		OwnerID:     e.OwnerID,
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date.UTC(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&userRecord{}).Where("id = ?", e.OwnerID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("user %s: %w", e.OwnerID, ErrNotFound)
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return models.Exercise{}, fmt.Errorf("insert exercise: %w", err)
	}
	e.ID = strconv.FormatUint(rec.ID, 10)
	return e, nil
}

func (s *SQLite) FindExercisesByOwner(ctx context.Context, ownerID string) ([]models.Exercise, error) {
	var recs []exerciseRecord
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("select exercises: %w", err)
	}
	out := make([]models.Exercise, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.Exercise{
			ID:          strconv.FormatUint(r.ID, 10),
			OwnerID:     r.OwnerID,
			Description: r.Description,
			Duration:    r.Duration,
			Date:        r.Date.UTC(),
		})
	}
	return out, nil
}

func (s *SQLite) Close() error {
	return s.sqlDB.Close()
}
