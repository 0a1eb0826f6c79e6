package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/docugrade/docugrade/internal/database"
	"github.com/docugrade/docugrade/internal/models"
)

// ErrDuplicateEmail is returned when an insert collides with an existing
// account. The unique index on email is the final arbiter, so concurrent
// registrations of the same address produce exactly one success.
var ErrDuplicateEmail = errors.New("email already registered")

// Repository defines persistence operations for user accounts.
type Repository interface {
	// Insert persists a new user, assigning its id and creation time.
	// Returns ErrDuplicateEmail when the email is already taken.
	Insert(ctx context.Context, u *models.User) (*models.User, error)
	// GetByEmail returns the user with the exact email, or nil when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// MongoRepository implements Repository on a MongoDB database.
type MongoRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

// NewMongoRepository creates the repository and ensures the unique email index.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	col := db.Collection("users")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = col.Indexes().CreateOne(ctx, idx)
	return &MongoRepository{db: db, col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, u *models.User) (*models.User, error) {
	id, err := database.NextSequence(ctx, r.db, "users")
	if err != nil {
		return nil, err
	}
	u.ID = id
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
