package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/domain/provider"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
)

// TranscriptionService turns recorded audio into text using the user's
// selected speech provider.
type TranscriptionService struct {
	settings        *SettingsService
	transcribers    provider.TranscriberFactory
	calls           callRecorder
	defaultLanguage string
	logger          *zap.Logger
}

// NewTranscriptionService creates a new transcription service.
// defaultLanguage is used when the user's language tag has no usable base.
func NewTranscriptionService(
	settings *SettingsService,
	transcribers provider.TranscriberFactory,
	callLog repository.CallLogRepository,
	defaultLanguage string,
	logger *zap.Logger,
) *TranscriptionService {
	return &TranscriptionService{
		settings:        settings,
		transcribers:    transcribers,
		calls:           callRecorder{log: callLog, clock: time.Now, logger: logger},
		defaultLanguage: defaultLanguage,
		logger:          logger,
	}
}

// Transcribe makes one recognition attempt. Empty audio, unknown providers,
// unsupported providers and missing keys fail before any network call.
func (s *TranscriptionService) Transcribe(ctx context.Context, userID string, audio entity.AudioPayload) (string, error) {
	if len(audio.Data) == 0 {
		return "", domainErrors.ErrEmptyInput
	}
	if audio.MIMEType == "" {
		audio.MIMEType = entity.DefaultAudioMIMEType
	}

	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	p, m, err := s.settings.registry.Resolve(settings.SpeechProvider, settings.SpeechModel, entity.ModelTypeSpeech)
	if err != nil {
		return "", err
	}

	transcriber, err := s.transcribers.Transcriber(p.ID)
	if err != nil {
		return "", err
	}

	apiKey, err := requireKey(settings, p)
	if err != nil {
		return "", err
	}

	started := s.calls.clock()
	text, err := transcriber.Transcribe(ctx, provider.TranscribeRequest{
		Model:    m.ID,
		APIKey:   apiKey,
		Language: s.language(settings.Language),
		Audio:    audio,
	})

	s.calls.record(ctx, repository.AICallLog{
		UserID:     userID,
		ProviderID: p.ID,
		ModelID:    m.ID,
		Operation:  repository.OperationTranscribe,
	}, started, err)

	if err != nil {
		s.logger.Warn("transcription failed",
			zap.String("user_id", userID),
			zap.String("provider_id", p.ID),
			zap.String("model_id", m.ID),
			zap.Error(err))
		return "", err
	}

	s.logger.Info("audio transcribed",
		zap.String("user_id", userID),
		zap.String("provider_id", p.ID),
		zap.Int("audio_bytes", len(audio.Data)))
	return text, nil
}

// language reduces a settings tag such as zh-CN to the base code the
// speech APIs expect.
func (s *TranscriptionService) language(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return s.defaultLanguage
	}
	base, conf := t.Base()
	if conf == language.No {
		return s.defaultLanguage
	}
	return base.String()
}
