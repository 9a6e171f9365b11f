package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/ai/parser"
	"github.com/feiaaa1/mindstream/internal/ai/prompt"
	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/domain/provider"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
)

// StructuringService turns free-form text into a structured task payload
// using the user's selected text provider.
type StructuringService struct {
	settings   *SettingsService
	generators provider.TextGeneratorFactory
	prompts    *prompt.Builder
	parser     *parser.TaskParser
	calls      callRecorder
	logger     *zap.Logger
}

// NewStructuringService creates a new structuring service
func NewStructuringService(
	settings *SettingsService,
	generators provider.TextGeneratorFactory,
	callLog repository.CallLogRepository,
	logger *zap.Logger,
) *StructuringService {
	return &StructuringService{
		settings:   settings,
		generators: generators,
		prompts:    prompt.NewBuilder(),
		parser:     parser.NewTaskParser(),
		calls:      callRecorder{log: callLog, clock: time.Now, logger: logger},
		logger:     logger,
	}
}

// Structure runs one structuring request. Provider, model, capability and
// credential checks all happen before any network call.
func (s *StructuringService) Structure(ctx context.Context, userID, text string) (entity.StructuredTaskPayload, error) {
	msgs, err := s.prompts.Build(text)
	if err != nil {
		return entity.StructuredTaskPayload{}, err
	}

	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return entity.StructuredTaskPayload{}, err
	}

	p, m, err := s.settings.registry.Resolve(settings.TextProvider, settings.TextModel, entity.ModelTypeText)
	if err != nil {
		return entity.StructuredTaskPayload{}, err
	}

	generator, err := s.generators.TextGenerator(p.ID)
	if err != nil {
		return entity.StructuredTaskPayload{}, err
	}

	apiKey, err := requireKey(settings, p)
	if err != nil {
		return entity.StructuredTaskPayload{}, err
	}

	started := s.calls.clock()
	raw, err := generator.Generate(ctx, provider.GenerateRequest{
		Model:        m.ID,
		APIKey:       apiKey,
		SystemPrompt: msgs.System,
		Prompt:       msgs.User,
	})

	var payload entity.StructuredTaskPayload
	if err == nil {
		payload, err = s.parser.Parse(raw)
	}

	s.calls.record(ctx, repository.AICallLog{
		UserID:     userID,
		ProviderID: p.ID,
		ModelID:    m.ID,
		Operation:  repository.OperationStructure,
	}, started, err)

	if err != nil {
		s.logFailure(userID, p.ID, m.ID, err)
		return entity.StructuredTaskPayload{}, err
	}

	s.logger.Info("text structured",
		zap.String("user_id", userID),
		zap.String("provider_id", p.ID),
		zap.String("model_id", m.ID),
		zap.Int("tasks", len(payload.Tasks)))
	return payload, nil
}

func (s *StructuringService) logFailure(userID, providerID, modelID string, err error) {
	fields := []zap.Field{
		zap.String("user_id", userID),
		zap.String("provider_id", providerID),
		zap.String("model_id", modelID),
		zap.Error(err),
	}

	var upstream *domainErrors.UpstreamError
	if errors.As(err, &upstream) {
		s.logger.Warn("text provider returned an error", append(fields, zap.Int("status_code", upstream.StatusCode))...)
		return
	}
	s.logger.Warn("structuring failed", fields...)
}
