package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/usecase"
	apperrors "github.com/feiaaa1/mindstream/pkg/errors"
)

// SaveTasksRequest is the reviewed payload sent to POST /api/v1/tasks
type SaveTasksRequest struct {
	Tasks []SaveTaskItem `json:"tasks" validate:"required,dive"`
}

type SaveTaskItem struct {
	Title         string            `json:"title" validate:"required,max=200"`
	Category      string            `json:"category" validate:"max=50"`
	EstimatedTime json.Number       `json:"estimatedTime"`
	Subtasks      []SaveSubtaskItem `json:"subtasks" validate:"dive"`
}

type SaveSubtaskItem struct {
	Title     string `json:"title" validate:"required,max=200"`
	Completed bool   `json:"completed"`
}

func (r SaveTasksRequest) payload() entity.StructuredTaskPayload {
	tasks := make([]entity.PayloadTask, len(r.Tasks))
	for i, t := range r.Tasks {
		subtasks := make([]entity.PayloadSubTask, len(t.Subtasks))
		for j, st := range t.Subtasks {
			subtasks[j] = entity.PayloadSubTask{Title: st.Title, Completed: st.Completed}
		}
		tasks[i] = entity.PayloadTask{
			Title:         t.Title,
			Category:      t.Category,
			EstimatedTime: t.EstimatedTime,
			Subtasks:      subtasks,
		}
	}
	return entity.StructuredTaskPayload{Tasks: tasks}
}

// UpdateTaskRequest is the body of PATCH /api/v1/tasks/:id
type UpdateTaskRequest struct {
	Title         *string              `json:"title" validate:"omitnil,min=1,max=200"`
	Category      *string              `json:"category" validate:"omitnil,max=50"`
	EstimatedTime *int                 `json:"estimatedTime" validate:"omitnil,min=0"`
	Subtasks      *[]UpdateSubtaskItem `json:"subtasks" validate:"omitnil,dive"`
	Completed     *bool                `json:"completed"`
}

type UpdateSubtaskItem struct {
	ID        string `json:"id"`
	Title     string `json:"title" validate:"required,max=200"`
	Completed bool   `json:"completed"`
}

func (r UpdateTaskRequest) update() usecase.TaskUpdate {
	u := usecase.TaskUpdate{
		Title:         r.Title,
		Category:      r.Category,
		EstimatedTime: r.EstimatedTime,
		Completed:     r.Completed,
	}
	if r.Subtasks != nil {
		subtasks := make([]entity.SubTask, len(*r.Subtasks))
		for i, st := range *r.Subtasks {
			subtasks[i] = entity.SubTask{ID: st.ID, Title: st.Title, Completed: st.Completed}
		}
		u.Subtasks = &subtasks
	}
	return u
}

// ToggleSubtaskRequest is the body of PATCH /api/v1/tasks/:id/subtasks/:subtaskId
type ToggleSubtaskRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// TaskHandler handles the user's saved tasks
type TaskHandler struct {
	logger *zap.Logger
	tasks  *usecase.TaskService
}

// NewTaskHandler creates a new task handler instance
func NewTaskHandler(logger *zap.Logger, tasks *usecase.TaskService) *TaskHandler {
	return &TaskHandler{
		logger: logger,
		tasks:  tasks,
	}
}

// RegisterRoutes registers the authenticated task routes
func (h *TaskHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/tasks", h.SaveTasks)
	g.GET("/tasks", h.ListTasks)
	g.PATCH("/tasks/:id", h.UpdateTask)
	g.DELETE("/tasks/:id", h.DeleteTask)
	g.PATCH("/tasks/:id/subtasks/:subtaskId", h.ToggleSubtask)
}

// SaveTasks handles POST /api/v1/tasks
func (h *TaskHandler) SaveTasks(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req SaveTasksRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tasks, err := h.tasks.SaveTasks(c.Request().Context(), uid, req.payload())
	if err != nil {
		var saveErr *domainErrors.SaveTasksError
		if errors.As(err, &saveErr) {
			h.logger.Error("task save stopped part way",
				zap.String("user_id", uid),
				zap.Int("saved", saveErr.Saved),
				zap.Error(err))
			status, body := apperrors.ErrorBody(err)
			body["saved"] = tasks
			return c.JSON(status, body)
		}
		return err
	}
	return c.JSON(http.StatusCreated, tasks)
}

// ListTasks handles GET /api/v1/tasks
func (h *TaskHandler) ListTasks(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListTasks(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// UpdateTask handles PATCH /api/v1/tasks/:id
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.UpdateTask(c.Request().Context(), uid, c.Param("id"), req.update())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// ToggleSubtask handles PATCH /api/v1/tasks/:id/subtasks/:subtaskId
func (h *TaskHandler) ToggleSubtask(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req ToggleSubtaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.ToggleSubtask(c.Request().Context(), uid, c.Param("id"), c.Param("subtaskId"), *req.Completed)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/v1/tasks/:id
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	if err := h.tasks.DeleteTask(c.Request().Context(), uid, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
