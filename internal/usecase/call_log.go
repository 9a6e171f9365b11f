package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
	apperrors "github.com/feiaaa1/mindstream/pkg/errors"
)

// callRecorder fills in timing and outcome for a provider call log entry.
type callRecorder struct {
	log    repository.CallLogRepository
	clock  func() time.Time
	logger *zap.Logger
}

func (r callRecorder) record(ctx context.Context, entry repository.AICallLog, started time.Time, err error) {
	now := r.clock()
	entry.DurationMs = now.Sub(started).Milliseconds()
	entry.CreatedAt = now.UTC()
	entry.Success = err == nil

	if err != nil {
		if code, ok := apperrors.CodeOf(err); ok {
			entry.ErrorCode = code
		} else {
			entry.ErrorCode = apperrors.ErrInternal
		}
		var upstream *domainErrors.UpstreamError
		if errors.As(err, &upstream) {
			entry.StatusCode = upstream.StatusCode
		}
	}

	if recErr := r.log.Record(ctx, entry); recErr != nil {
		r.logger.Warn("failed to record AI call",
			zap.String("provider_id", entry.ProviderID),
			zap.String("operation", entry.Operation),
			zap.Error(recErr))
	}
}
