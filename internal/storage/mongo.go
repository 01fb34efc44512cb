package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"exercise-tracker/internal/models"
)

const (
	usersCollection     = "users"
	exercisesCollection = "exercises"
)

type userDoc struct {
	ID       bson.ObjectID `bson:"_id"`
	Username string        `bson:"username"`
}

type exerciseDoc struct {
	ID          bson.ObjectID `bson:"_id"`
	UserID      string        `bson:"user_id"`
	Description string        `bson:"description"`
	Duration    int           `bson:"duration"`
	Date        time.Time     `bson:"date"`
}

// Mongo stores users and exercises as documents. User ids are ObjectID hex
// strings; ObjectIDs grow with insertion, so sorting by _id gives
// creation order.
type Mongo struct {
	client    *mongo.Client
	users     *mongo.Collection
	exercises *mongo.Collection
}

func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	m := &Mongo{
		client:    client,
		users:     db.Collection(usersCollection),
		exercises: db.Collection(exercisesCollection),
	}
	_, err = m.exercises.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create exercise index: %w", err)
	}
	return m, nil
}

func (m *Mongo) CreateUser(ctx context.Context, username string) (models.User, error) {
	doc := userDoc{ID: bson.NewObjectID(), Username: username}
	if _, err := m.users.InsertOne(ctx, doc); err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return models.User{ID: doc.ID.Hex(), Username: doc.Username}, nil
}

func (m *Mongo) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := m.users.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, models.User{ID: d.ID.Hex(), Username: d.Username})
	}
	return users, nil
}

func (m *Mongo) FindUserByID(ctx context.Context, id string) (models.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	var doc userDoc
	err = m.users.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return models.User{ID: doc.ID.Hex(), Username: doc.Username}, nil
}

func (m *Mongo) AddExercise(ctx context.Context, e models.Exercise) (models.Exercise, error) {
	if _, err := m.FindUserByID(ctx, e.OwnerID); err != nil {
		return models.Exercise{}, err
	}
	doc := exerciseDoc{
		ID:          bson.NewObjectID(),
		UserID:      e.OwnerID,
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date.UTC(),
	}
	if _, err := m.exercises.InsertOne(ctx, doc); err != nil {
		return models.Exercise{}, fmt.Errorf("insert exercise: %w", err)
	}
	e.ID = doc.ID.Hex()
	return e, nil
}

func (m *Mongo) FindExercisesByOwner(ctx context.Context, ownerID string) ([]models.Exercise, error) {
	cur, err := m.exercises.Find(ctx,
		bson.D{{Key: "user_id", Value: ownerID}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find exercises: %w", err)
	}
	var docs []exerciseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode exercises: %w", err)
	}
	out := make([]models.Exercise, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.Exercise{
			ID:          d.ID.Hex(),
			OwnerID:     d.UserID,
			Description: d.Description,
			Duration:    d.Duration,
			Date:        d.Date.UTC(),
		})
	}
	return out, nil
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
