package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
)

// Transcriber is the transcription step of a capture.
type Transcriber interface {
	Transcribe(ctx context.Context, userID string, audio entity.AudioPayload) (string, error)
}

// Structurer is the structuring step of a capture.
type Structurer interface {
	Structure(ctx context.Context, userID, text string) (entity.StructuredTaskPayload, error)
}

// TaskSaver persists a reviewed or auto-saved payload.
type TaskSaver interface {
	SaveTasks(ctx context.Context, userID string, payload entity.StructuredTaskPayload) ([]entity.Task, error)
}

// SettingsReader exposes the user's settings.
type SettingsReader interface {
	Get(ctx context.Context, userID string) (*entity.UserSettings, error)
}

// CaptureInput is one submission: audio when recorded, text otherwise.
type CaptureInput struct {
	Text  string
	Audio *entity.AudioPayload
}

// CaptureResult is what a capture produced. Tasks is set only when the
// user has auto-save enabled.
type CaptureResult struct {
	Session    *entity.CaptureSession       `json:"session"`
	Transcript string                       `json:"transcript,omitempty"`
	Payload    entity.StructuredTaskPayload `json:"payload"`
	Tasks      []entity.Task                `json:"tasks,omitempty"`
	AudioKey   string                       `json:"audioKey,omitempty"`
}

// PipelineService drives one capture through transcribe, structure and
// optional save, strictly in that order.
type PipelineService struct {
	transcriber Transcriber
	structurer  Structurer
	tasks       TaskSaver
	settings    SettingsReader
	archive     repository.AudioArchive
	clock       func() time.Time
	logger      *zap.Logger
}

// NewPipelineService creates a new pipeline service
func NewPipelineService(
	transcriber Transcriber,
	structurer Structurer,
	tasks TaskSaver,
	settings SettingsReader,
	archive repository.AudioArchive,
	logger *zap.Logger,
) *PipelineService {
	return &PipelineService{
		transcriber: transcriber,
		structurer:  structurer,
		tasks:       tasks,
		settings:    settings,
		archive:     archive,
		clock:       time.Now,
		logger:      logger,
	}
}

// Capture runs one submission. A failing stage moves the session to the
// error state and stops the pipeline; the partial result is still returned.
func (s *PipelineService) Capture(ctx context.Context, userID string, in CaptureInput) (*CaptureResult, error) {
	session := entity.NewCaptureSession(uuid.NewString(), userID, s.clock)
	result := &CaptureResult{Session: session}

	text := in.Text
	if in.Audio != nil && len(in.Audio.Data) > 0 {
		transcript, err := s.transcribe(ctx, session, result, *in.Audio)
		if err != nil {
			return result, s.fail(session, err)
		}
		text = transcript
	} else if strings.TrimSpace(text) == "" {
		return result, s.fail(session, domainErrors.ErrEmptyInput)
	}

	if err := session.BeginStructuring(text); err != nil {
		return result, s.fail(session, err)
	}

	payload, err := s.structurer.Structure(ctx, userID, text)
	if err != nil {
		return result, s.fail(session, err)
	}
	result.Payload = payload

	if err := session.Complete(); err != nil {
		return result, s.fail(session, err)
	}

	settings, err := s.settings.Get(ctx, userID)
	if err != nil || !settings.AutoSave {
		return result, nil
	}

	tasks, err := s.tasks.SaveTasks(ctx, userID, payload)
	result.Tasks = tasks
	if err != nil {
		return result, err
	}

	s.logger.Info("capture auto-saved",
		zap.String("user_id", userID),
		zap.String("session_id", session.ID),
		zap.Int("tasks", len(tasks)))
	return result, nil
}

func (s *PipelineService) transcribe(ctx context.Context, session *entity.CaptureSession, result *CaptureResult, audio entity.AudioPayload) (string, error) {
	if err := session.StartRecording(); err != nil {
		return "", err
	}

	if s.archive != nil {
		key, err := s.archive.Store(ctx, session.UserID, audio.Data, audio.MIMEType, audio.Extension())
		if err != nil {
			s.logger.Warn("failed to archive audio",
				zap.String("user_id", session.UserID),
				zap.String("session_id", session.ID),
				zap.Error(err))
		}
		result.AudioKey = key
	}

	if err := session.BeginTranscribing(); err != nil {
		return "", err
	}

	transcript, err := s.transcriber.Transcribe(ctx, session.UserID, audio)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(transcript) == "" {
		return "", domainErrors.ErrEmptyInput
	}

	result.Transcript = transcript
	return transcript, nil
}

func (s *PipelineService) fail(session *entity.CaptureSession, cause error) error {
	if err := session.Fail(cause); err != nil {
		s.logger.Warn("capture session already finished",
			zap.String("session_id", session.ID),
			zap.Error(err))
	}
	s.logger.Info("capture failed",
		zap.String("user_id", session.UserID),
		zap.String("session_id", session.ID),
		zap.Error(cause))
	return cause
}
