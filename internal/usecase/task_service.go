package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
	"github.com/feiaaa1/mindstream/internal/domain/service"
	apperrors "github.com/feiaaa1/mindstream/pkg/errors"
	"github.com/feiaaa1/mindstream/pkg/messaging"
)

// EventTasksSaved is published after a payload has been fully persisted.
const EventTasksSaved = "tasks.saved"

// TasksSavedEvent is the message body of EventTasksSaved.
type TasksSavedEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	TaskIDs    []string  `json:"task_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TaskUpdate is a partial task change. Nil fields are left alone.
// Subtasks replaces the whole list; Completed is applied after it.
type TaskUpdate struct {
	Title         *string
	Category      *string
	EstimatedTime *int
	Subtasks      *[]entity.SubTask
	Completed     *bool
}

// TaskService persists materialized tasks and applies user edits.
type TaskService struct {
	repo         repository.TaskRepository
	materializer *service.TaskMaterializer
	publisher    messaging.Publisher
	channel      string
	clock        func() time.Time
	logger       *zap.Logger
}

// NewTaskService creates a new task service
func NewTaskService(
	repo repository.TaskRepository,
	materializer *service.TaskMaterializer,
	publisher messaging.Publisher,
	channel string,
	logger *zap.Logger,
) *TaskService {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &TaskService{
		repo:         repo,
		materializer: materializer,
		publisher:    publisher,
		channel:      channel,
		clock:        time.Now,
		logger:       logger,
	}
}

// SaveTasks materializes the payload and inserts one row per task, in order.
// There is no transaction: on failure the tasks saved so far are returned
// together with a *SaveTasksError.
func (s *TaskService) SaveTasks(ctx context.Context, userID string, payload entity.StructuredTaskPayload) ([]entity.Task, error) {
	if userID == "" {
		return nil, apperrors.InvalidArgument("user id is required")
	}

	tasks := s.materializer.Materialize(payload)
	saved := make([]entity.Task, 0, len(tasks))

	for i := range tasks {
		tasks[i].UserID = userID
		if err := s.repo.Create(ctx, &tasks[i]); err != nil {
			s.logger.Error("failed to save task",
				zap.String("user_id", userID),
				zap.Int("saved", len(saved)),
				zap.Int("total", len(tasks)),
				zap.Error(err))
			return saved, &domainErrors.SaveTasksError{Saved: len(saved), Err: err}
		}
		saved = append(saved, tasks[i])
	}

	s.publishSaved(ctx, userID, saved)

	s.logger.Info("tasks saved",
		zap.String("user_id", userID),
		zap.Int("count", len(saved)))
	return saved, nil
}

// ListTasks returns the user's tasks, newest first.
func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]entity.Task, error) {
	tasks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies a partial update to one of the user's tasks.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, update TaskUpdate) (*entity.Task, error) {
	if err := validateTaskUpdate(update); err != nil {
		return nil, err
	}

	task, err := s.find(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		task.Title = strings.TrimSpace(*update.Title)
	}
	if update.Category != nil {
		task.Category = *update.Category
	}
	if update.EstimatedTime != nil {
		task.EstimatedTime = *update.EstimatedTime
	}
	if update.Subtasks != nil {
		task.ReplaceSubtasks(s.materializer.AssignSubtaskIDs(*update.Subtasks))
	}
	if update.Completed != nil {
		task.SetCompleted(*update.Completed)
	}

	if err := s.update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ToggleSubtask sets one subtask's flag and recomputes the task's completion.
func (s *TaskService) ToggleSubtask(ctx context.Context, userID, taskID, subtaskID string, completed bool) (*entity.Task, error) {
	task, err := s.find(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if !task.SetSubtaskCompleted(subtaskID, completed) {
		return nil, domainErrors.ErrSubtaskNotFound
	}

	if err := s.update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes one of the user's tasks.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if err := s.repo.Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domainErrors.ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("task deleted",
		zap.String("user_id", userID),
		zap.String("task_id", taskID))
	return nil
}

func (s *TaskService) find(ctx context.Context, userID, taskID string) (*entity.Task, error) {
	task, err := s.repo.FindByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domainErrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) update(ctx context.Context, task *entity.Task) error {
	task.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domainErrors.ErrTaskNotFound
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// publishSaved is best effort; a lost event never fails the save.
func (s *TaskService) publishSaved(ctx context.Context, userID string, tasks []entity.Task) {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	event := TasksSavedEvent{
		Type:       EventTasksSaved,
		UserID:     userID,
		TaskIDs:    ids,
		OccurredAt: s.clock().UTC(),
	}
	if err := s.publisher.Publish(ctx, s.channel, event); err != nil {
		s.logger.Warn("failed to publish tasks.saved event",
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

func validateTaskUpdate(u TaskUpdate) error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return apperrors.InvalidArgument("title must not be blank")
	}
	if u.EstimatedTime != nil && *u.EstimatedTime < 0 {
		return apperrors.InvalidArgument("estimated time must not be negative")
	}
	if u.Subtasks != nil {
		for _, st := range *u.Subtasks {
			if strings.TrimSpace(st.Title) == "" {
				return apperrors.InvalidArgument("subtask title must not be blank")
			}
		}
	}
	return nil
}
