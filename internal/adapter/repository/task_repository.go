package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	"github.com/feiaaa1/mindstream/internal/domain/model"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
)

type taskRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB, logger *zap.Logger) repository.TaskRepository {
	return &taskRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts one task row
func (r *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	row := model.NewTaskModel(task)

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		r.logger.Error("Failed to create task",
			zap.String("user_id", task.UserID),
			zap.String("task_id", task.ID),
			zap.Error(err))
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// ListByUser returns the user's tasks, newest first
func (r *taskRepository) ListByUser(ctx context.Context, userID string) ([]entity.Task, error) {
	var rows []model.Task

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id").
		Find(&rows).Error
	if err != nil {
		r.logger.Error("Failed to list tasks",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]entity.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, *rows[i].ToEntity())
	}
	return tasks, nil
}

// FindByID returns the task only if it belongs to the user
func (r *taskRepository) FindByID(ctx context.Context, userID, taskID string) (*entity.Task, error) {
	var row model.Task

	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		r.logger.Error("Failed to get task",
			zap.String("user_id", userID),
			zap.String("task_id", taskID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return row.ToEntity(), nil
}

// Update writes every mutable column of the task
func (r *taskRepository) Update(ctx context.Context, task *entity.Task) error {
	row := model.NewTaskModel(task)

	updates := map[string]interface{}{
		"title":          row.Title,
		"category":       row.Category,
		"estimated_time": row.EstimatedTime,
		"subtasks":       row.Subtasks,
		"completed":      row.Completed,
		"updated_at":     row.UpdatedAt,
	}

	result := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("Failed to update task",
			zap.String("user_id", task.UserID),
			zap.String("task_id", task.ID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes the task if it belongs to the user
func (r *taskRepository) Delete(ctx context.Context, userID, taskID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&model.Task{})
	if result.Error != nil {
		r.logger.Error("Failed to delete task",
			zap.String("user_id", userID),
			zap.String("task_id", taskID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
