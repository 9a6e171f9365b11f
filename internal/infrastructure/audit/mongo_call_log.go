package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/config"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
)

const defaultCollection = "ai_call_logs"

// inserter is the part of *mongo.Collection the call log needs.
type inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// MongoCallLog appends AI call records to a MongoDB collection.
type MongoCallLog struct {
	collection inserter
}

// NewMongoCallLog creates a call log writing to the given collection.
func NewMongoCallLog(collection *mongo.Collection) *MongoCallLog {
	return &MongoCallLog{collection: collection}
}

// Record inserts one document.
func (l *MongoCallLog) Record(ctx context.Context, entry repository.AICallLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if _, err := l.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert ai call log: %w", err)
	}
	return nil
}

// Connect opens and pings a MongoDB client.
func Connect(ctx context.Context, cfg config.Mongo, logger *zap.Logger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("MongoDB connected successfully", zap.String("database", cfg.Database))
	return client, nil
}

// Collection returns the configured call log collection.
func Collection(client *mongo.Client, cfg config.Mongo) *mongo.Collection {
	name := cfg.Collection
	if name == "" {
		name = defaultCollection
	}
	return client.Database(cfg.Database).Collection(name)
}
