package entity

import "time"

// Categories is the fixed category set the structuring prompt asks the model to use.
var Categories = []string{"工作", "生活", "学习", "健康", "其他"}

// IsCategory reports whether c belongs to the category set.
func IsCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// SubTask is a single actionable step of a Task.
type SubTask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Task is a persisted, user-owned task.
// Completed is derived from the subtasks whenever the task has any;
// every mutation path goes through the methods below to keep it in sync.
type Task struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	EstimatedTime int       `json:"estimatedTime"`
	Subtasks      []SubTask `json:"subtasks"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RecomputeCompleted sets Completed to true iff every subtask is completed.
// A task without subtasks keeps its current flag.
func (t *Task) RecomputeCompleted() {
	if len(t.Subtasks) == 0 {
		return
	}
	for _, st := range t.Subtasks {
		if !st.Completed {
			t.Completed = false
			return
		}
	}
	t.Completed = true
}

// SetSubtaskCompleted toggles one subtask and recomputes the task flag.
// It returns false when no subtask has the given id.
func (t *Task) SetSubtaskCompleted(subtaskID string, completed bool) bool {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			t.Subtasks[i].Completed = completed
			t.RecomputeCompleted()
			return true
		}
	}
	return false
}

// ReplaceSubtasks swaps the subtask list and recomputes the task flag.
func (t *Task) ReplaceSubtasks(subtasks []SubTask) {
	t.Subtasks = subtasks
	t.RecomputeCompleted()
}

// SetCompleted marks the task and, if it has subtasks, all of them.
func (t *Task) SetCompleted(completed bool) {
	for i := range t.Subtasks {
		t.Subtasks[i].Completed = completed
	}
	t.Completed = completed
}
