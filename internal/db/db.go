package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"student-records/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index names are referenced when translating duplicate-key write errors
// back to the field that collided.
const (
	EmailIndex    = "uniq_email"
	MatricNoIndex = "uniq_matric_no"
)

// Connect creates the process-wide Mongo client. The client connects lazily;
// the server starts accepting requests before the store is confirmed
// reachable, and requests fail with 500 until it is.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(time.Duration(cfg.ConnectTimeout) * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ConnectTimeout)*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		slog.Warn("database not reachable yet, continuing startup", "error", err)
	} else {
		slog.Info("database connected successfully")
	}

	return client, nil
}

// EnsureIndexes creates the unique indexes on email and matric_no. These are
// the authoritative uniqueness enforcement; the application-level duplicate
// check only exists for friendly error messages.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(EmailIndex),
		},
		{
			Keys:    bson.D{{Key: "matric_no", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(MatricNoIndex),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	slog.Info("database indexes ensured", "collection", coll.Name())
	return nil
}

func Close(ctx context.Context, client *mongo.Client) {
	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			slog.Warn("failed to disconnect database client", "error", err)
		}
	}
}
