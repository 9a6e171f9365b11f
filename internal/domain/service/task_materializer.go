package service

import (
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
)

const (
	subtaskIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	subtaskIDLength   = 9
)

// TaskMaterializer turns a structured payload into fresh Task entities.
// Every call mints new identifiers, so materializing the same payload twice
// yields two disjoint task sets.
type TaskMaterializer struct {
	clock        func() time.Time
	newTaskID    func() string
	newSubtaskID func() string
}

// MaterializerOption configures a TaskMaterializer.
type MaterializerOption func(*TaskMaterializer)

// WithClock overrides the creation timestamp source.
func WithClock(clock func() time.Time) MaterializerOption {
	return func(m *TaskMaterializer) {
		m.clock = clock
	}
}

// WithIDGenerators overrides task and subtask id generation.
func WithIDGenerators(taskID, subtaskID func() string) MaterializerOption {
	return func(m *TaskMaterializer) {
		m.newTaskID = taskID
		m.newSubtaskID = subtaskID
	}
}

// NewTaskMaterializer creates a materializer using uuid task ids and nanoid subtask ids.
func NewTaskMaterializer(opts ...MaterializerOption) *TaskMaterializer {
	m := &TaskMaterializer{
		clock:     time.Now,
		newTaskID: func() string { return uuid.NewString() },
		newSubtaskID: func() string {
			return gonanoid.MustGenerate(subtaskIDAlphabet, subtaskIDLength)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Materialize copies title, category and estimate verbatim and starts every
// task and subtask uncompleted, whatever the payload says.
func (m *TaskMaterializer) Materialize(payload entity.StructuredTaskPayload) []entity.Task {
	now := m.clock().UTC()
	tasks := make([]entity.Task, 0, len(payload.Tasks))

	for _, pt := range payload.Tasks {
		subtasks := make([]entity.SubTask, 0, len(pt.Subtasks))
		seen := make(map[string]struct{}, len(pt.Subtasks))

		for _, ps := range pt.Subtasks {
			subtasks = append(subtasks, entity.SubTask{
				ID:        m.uniqueSubtaskID(seen),
				Title:     ps.Title,
				Completed: false,
			})
		}

		tasks = append(tasks, entity.Task{
			ID:            m.newTaskID(),
			Title:         pt.Title,
			Category:      pt.Category,
			EstimatedTime: pt.EstimatedMinutes(),
			Subtasks:      subtasks,
			Completed:     false,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	return tasks
}

// uniqueSubtaskID draws ids until one is unused within the current task.
func (m *TaskMaterializer) uniqueSubtaskID(seen map[string]struct{}) string {
	for {
		id := m.newSubtaskID()
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			return id
		}
	}
}

// AssignSubtaskIDs gives every subtask without an id a fresh one and
// re-issues ids that repeat within the list. Titles and flags are kept.
func (m *TaskMaterializer) AssignSubtaskIDs(subtasks []entity.SubTask) []entity.SubTask {
	out := make([]entity.SubTask, 0, len(subtasks))
	seen := make(map[string]struct{}, len(subtasks))

	for _, st := range subtasks {
		if _, dup := seen[st.ID]; st.ID == "" || dup {
			st.ID = m.uniqueSubtaskID(seen)
		} else {
			seen[st.ID] = struct{}{}
		}
		out = append(out, st)
	}
	return out
}
