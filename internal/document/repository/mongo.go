package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/docugrade/docugrade/internal/database"
	"github.com/docugrade/docugrade/internal/models"
)

// MongoRepo implements Repository on MongoDB. Numeric document ids come from
// the shared counters collection.
type MongoRepo struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	col := db.Collection("documents")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = col.Indexes().CreateOne(ctx, idx)
	return &MongoRepo{db: db, col: col}
}

func (m *MongoRepo) InsertBatch(ctx context.Context, docs []*models.Document) error {
	if len(docs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		id, err := database.NextSequence(ctx, m.db, "documents")
		if err != nil {
			return err
		}
		d.ID = id
		d.CreatedAt = now
		rows = append(rows, d)
	}
	if _, err := m.col.InsertMany(ctx, rows); err != nil {
		return fmt.Errorf("insert documents: %w", err)
	}
	return nil
}

func (m *MongoRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := m.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cur.Close(ctx)
	out := []*models.Document{}
	for cur.Next(ctx) {
		var d models.Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

func (m *MongoRepo) GetByID(ctx context.Context, userID, docID int64) (*models.Document, error) {
	var d models.Document
	err := m.col.FindOne(ctx, bson.M{"_id": docID, "userId": userID}).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return &d, nil
}
