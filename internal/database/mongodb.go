package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// NextSequence returns the next value of a named counter stored in the
// "counters" collection. The $inc upsert is atomic on the server, so ids are
// unique under concurrent callers. Sequences start at 1.
func NextSequence(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	col := db.Collection("counters")
	filter := bson.M{"_id": name}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out struct {
		Seq int64 `bson:"seq"`
	}
	if err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		return 0, fmt.Errorf("next sequence %q: %w", name, err)
	}
	return out.Seq, nil
}
