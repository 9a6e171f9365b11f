package model

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
)

// Task is the gorm row for the tasks table. Subtasks are stored as one JSON column.
type Task struct {
	ID            string                               `gorm:"primaryKey;size:36"`
	UserID        string                               `gorm:"not null;index:idx_tasks_user_created,priority:1"`
	Title         string                               `gorm:"not null"`
	Category      string                               `gorm:"not null;default:''"`
	EstimatedTime int                                  `gorm:"not null;default:0"`
	Subtasks      datatypes.JSONType[[]entity.SubTask] `gorm:"not null"`
	Completed     bool                                 `gorm:"not null;default:false"`
	CreatedAt     time.Time                            `gorm:"not null;index:idx_tasks_user_created,priority:2,sort:desc"`
	UpdatedAt     time.Time
}

func (Task) TableName() string {
	return "tasks"
}

// NewTaskModel converts a domain task into a row.
func NewTaskModel(t *entity.Task) *Task {
	subtasks := t.Subtasks
	if subtasks == nil {
		subtasks = []entity.SubTask{}
	}
	return &Task{
		ID:            t.ID,
		UserID:        t.UserID,
		Title:         t.Title,
		Category:      t.Category,
		EstimatedTime: t.EstimatedTime,
		Subtasks:      datatypes.NewJSONType(subtasks),
		Completed:     t.Completed,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// ToEntity converts the row into a domain task.
func (m *Task) ToEntity() *entity.Task {
	subtasks := m.Subtasks.Data()
	if subtasks == nil {
		subtasks = []entity.SubTask{}
	}
	return &entity.Task{
		ID:            m.ID,
		UserID:        m.UserID,
		Title:         m.Title,
		Category:      m.Category,
		EstimatedTime: m.EstimatedTime,
		Subtasks:      subtasks,
		Completed:     m.Completed,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
