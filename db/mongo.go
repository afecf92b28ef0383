package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"blog-api/config"
)

// Connect opens a client for cfg, verifies it with a ping and ensures indexes.
// The caller owns the returned client and must Disconnect it.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cl, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := cl.Ping(ctx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	database := cl.Database(cfg.Database)
	if err := ensureIndexes(ctx, database.Collection(cfg.Collection)); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return cl, database, nil
}

// Ping runs the ping command against d.
func Ping(ctx context.Context, d *mongo.Database) error {
	return d.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func ensureIndexes(ctx context.Context, col *mongo.Collection) error {
	// blogs: created_at desc, author
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at_desc"),
		},
		{
			Keys:    bson.D{{Key: "author", Value: 1}},
			Options: options.Index().SetName("idx_author"),
		},
	})
	return err
}
