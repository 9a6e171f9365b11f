package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
)

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindByUserID(ctx context.Context, userID string) (*entity.UserSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings *entity.UserSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *entity.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) ListByUser(ctx context.Context, userID string) ([]entity.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, userID, taskID string) (*entity.Task, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *entity.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	args := m.Called(ctx, userID, taskID)
	return args.Error(0)
}

// MockCallLogRepository is a mock implementation of CallLogRepository
type MockCallLogRepository struct {
	mock.Mock
}

func (m *MockCallLogRepository) Record(ctx context.Context, entry repository.AICallLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockPublisher is a mock implementation of messaging.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

// MockAudioArchive is a mock implementation of AudioArchive
type MockAudioArchive struct {
	mock.Mock
}

func (m *MockAudioArchive) Store(ctx context.Context, userID string, data []byte, mimeType, extension string) (string, error) {
	args := m.Called(ctx, userID, data, mimeType, extension)
	return args.String(0), args.Error(1)
}

// MockLocalRecognizer is a mock implementation of LocalRecognizer
type MockLocalRecognizer struct {
	mock.Mock
}

func (m *MockLocalRecognizer) Recognize(ctx context.Context, audio entity.AudioPayload, language string) (string, error) {
	args := m.Called(ctx, audio, language)
	return args.String(0), args.Error(1)
}
