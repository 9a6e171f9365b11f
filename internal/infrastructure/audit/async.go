package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/domain/repository"
)

const recordTimeout = 5 * time.Second

// AsyncCallLog records in the background so a slow log store never delays
// the request. Failures are only logged.
type AsyncCallLog struct {
	inner  repository.CallLogRepository
	logger *zap.Logger
}

// NewAsyncCallLog wraps a call log repository.
func NewAsyncCallLog(inner repository.CallLogRepository, logger *zap.Logger) *AsyncCallLog {
	return &AsyncCallLog{inner: inner, logger: logger}
}

// Record returns immediately; the write runs detached from the request context.
func (a *AsyncCallLog) Record(_ context.Context, entry repository.AICallLog) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := a.inner.Record(ctx, entry); err != nil {
			a.logger.Warn("Failed to record AI call",
				zap.String("provider_id", entry.ProviderID),
				zap.String("operation", entry.Operation),
				zap.Error(err))
		}
	}()
	return nil
}

// NopCallLog discards every record.
type NopCallLog struct{}

func (NopCallLog) Record(context.Context, repository.AICallLog) error {
	return nil
}
