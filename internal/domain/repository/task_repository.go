package repository

import (
	"context"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
)

// TaskRepository persists user tasks. Every method is scoped to the owning user.
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	// ListByUser returns the user's tasks, newest first.
	ListByUser(ctx context.Context, userID string) ([]entity.Task, error)
	FindByID(ctx context.Context, userID, taskID string) (*entity.Task, error)
	Update(ctx context.Context, task *entity.Task) error
	Delete(ctx context.Context, userID, taskID string) error
}
