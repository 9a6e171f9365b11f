package repository

import (
	"context"
	"time"
)

// AICallLog records one provider call. It never carries key material or user text.
type AICallLog struct {
	UserID     string    `bson:"user_id"`
	ProviderID string    `bson:"provider_id"`
	ModelID    string    `bson:"model_id"`
	Operation  string    `bson:"operation"`
	DurationMs int64     `bson:"duration_ms"`
	Success    bool      `bson:"success"`
	ErrorCode  string    `bson:"error_code,omitempty"`
	StatusCode int       `bson:"status_code,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
}

const (
	OperationStructure  = "structure"
	OperationTranscribe = "transcribe"
)

// CallLogRepository is an append-only sink for AI call records.
type CallLogRepository interface {
	Record(ctx context.Context, entry AICallLog) error
}

// AudioArchive keeps a copy of captured audio.
type AudioArchive interface {
	// Store saves the blob and returns its object key.
	Store(ctx context.Context, userID string, data []byte, mimeType, extension string) (string, error)
}
