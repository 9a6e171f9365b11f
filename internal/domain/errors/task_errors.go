package errors

import (
	"fmt"

	apperrors "github.com/feiaaa1/mindstream/pkg/errors"
)

var (
	// ErrTaskNotFound is returned for a missing task or one owned by another user.
	ErrTaskNotFound = apperrors.NotFound("task not found")
	// ErrSubtaskNotFound is returned when a subtask id does not belong to the task.
	ErrSubtaskNotFound = apperrors.NotFound("subtask not found")
	// ErrEmptyInput is returned when there is nothing to structure or transcribe.
	ErrEmptyInput = apperrors.InvalidArgument("input is empty")
)

// SaveTasksError reports a persistence failure part way through a batch.
// The first Saved tasks stay saved.
type SaveTasksError struct {
	Saved int
	Err   error
}

func (e *SaveTasksError) Error() string {
	return fmt.Sprintf("failed to save task %d (%d already saved): %v", e.Saved+1, e.Saved, e.Err)
}

func (e *SaveTasksError) Unwrap() error { return e.Err }
