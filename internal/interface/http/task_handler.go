package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oktavandi/tasknest/internal/application"
	"github.com/oktavandi/tasknest/internal/domain/entity"
	"github.com/oktavandi/tasknest/internal/interface/middleware"
	"github.com/oktavandi/tasknest/pkg/response"
	"github.com/oktavandi/tasknest/pkg/validation"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Deadline string `json:"deadline" binding:"required"`
	Status   string `json:"status" binding:"omitempty,taskstatus"`
}

// updateTaskRequest is a partial update: nil fields are left untouched.
type updateTaskRequest struct {
	Subject  *string `json:"subject" binding:"omitempty"`
	Deadline *string `json:"deadline" binding:"omitempty"`
	Status   *string `json:"status" binding:"omitempty,taskstatus"`
}

type subtaskItemRequest struct {
	ID       string `json:"id" binding:"omitempty,uuid"`
	Subject  string `json:"subject" binding:"required"`
	Deadline string `json:"deadline" binding:"required"`
	Status   string `json:"status" binding:"omitempty,taskstatus"`
}

// parseDeadline accepts an RFC 3339 timestamp or a bare date.
func parseDeadline(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (h *TaskHandler) userID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

// taskID validates the :taskId path parameter.
func (h *TaskHandler) taskID(c *gin.Context) (string, bool) {
	id := c.Param("taskId")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid task id",
			map[string]string{"taskId": "must be a valid UUID"})
		return "", false
	}
	return id, true
}

func (h *TaskHandler) internal(c *gin.Context, err error, msg string) {
	h.Logger.WithError(err).Error(msg)
	response.Error(c, http.StatusInternalServerError, msg, nil)
}

// List GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.Svc.List(c.Request.Context(), h.userID(c))
	if err != nil {
		h.internal(c, err, "failed to list tasks")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": toTaskViews(tasks)}, "tasks")
}

// Create POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		response.Error(c, http.StatusBadRequest, "invalid payload",
			map[string]string{"subject": "is required"})
		return
	}
	deadline, ok := parseDeadline(req.Deadline)
	if !ok {
		response.Error(c, http.StatusBadRequest, "invalid payload",
			map[string]string{"deadline": "must be a valid ISO-8601 timestamp"})
		return
	}

	task, err := h.Svc.Create(c.Request.Context(), h.userID(c), application.CreateTaskInput{
		Subject:  subject,
		Deadline: deadline,
		Status:   entity.Status(req.Status),
	})
	if err != nil {
		h.internal(c, err, "failed to create task")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"task": toTaskView(*task)}, "task created")
}

// Update PUT /tasks/:taskId
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.UpdateTaskInput{}
	if req.Subject != nil {
		subject := strings.TrimSpace(*req.Subject)
		if subject == "" {
			response.Error(c, http.StatusBadRequest, "invalid payload",
				map[string]string{"subject": "is required"})
			return
		}
		in.Subject = &subject
	}
	if req.Deadline != nil {
		deadline, ok := parseDeadline(*req.Deadline)
		if !ok {
			response.Error(c, http.StatusBadRequest, "invalid payload",
				map[string]string{"deadline": "must be a valid ISO-8601 timestamp"})
			return
		}
		in.Deadline = &deadline
	}
	if req.Status != nil {
		status := entity.Status(*req.Status)
		in.Status = &status
	}

	task, err := h.Svc.Update(c.Request.Context(), h.userID(c), taskID, in)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrTaskNotFound):
			response.Error(c, http.StatusNotFound, "task not found", nil)
		case errors.Is(err, application.ErrTaskDeleted):
			response.Error(c, http.StatusBadRequest, "cannot update a deleted task", nil)
		default:
			h.internal(c, err, "failed to update task")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": toTaskView(*task)}, "task updated")
}

// Delete DELETE /tasks/:taskId (soft delete, idempotent)
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}
	already, err := h.Svc.SoftDelete(c.Request.Context(), h.userID(c), taskID)
	if err != nil {
		if errors.Is(err, application.ErrTaskNotFound) {
			response.Error(c, http.StatusNotFound, "task not found", nil)
			return
		}
		h.internal(c, err, "failed to delete task")
		return
	}
	msg := "task deleted"
	if already {
		msg = "task already deleted"
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, msg)
}

// ListSubtasks GET /tasks/:taskId/subtasks
func (h *TaskHandler) ListSubtasks(c *gin.Context) {
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}
	subtasks, err := h.Svc.ListSubtasks(c.Request.Context(), h.userID(c), taskID)
	if err != nil {
		if errors.Is(err, application.ErrTaskNotFound) {
			response.Error(c, http.StatusNotFound, "task not found", nil)
			return
		}
		h.internal(c, err, "failed to list subtasks")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subtasks": toSubtaskViews(subtasks)}, "subtasks")
}

// ReplaceSubtasks PUT /tasks/:taskId/subtasks
// Replaces the task's entire active subtask set; previously tombstoned
// subtasks survive on the server side.
func (h *TaskHandler) ReplaceSubtasks(c *gin.Context) {
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}
	var req []subtaskItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	inputs := make([]application.SubtaskInput, 0, len(req))
	for i, item := range req {
		subject := strings.TrimSpace(item.Subject)
		if subject == "" {
			response.Error(c, http.StatusBadRequest, "invalid payload",
				map[string]string{fmt.Sprintf("[%d].subject", i): "is required"})
			return
		}
		deadline, ok := parseDeadline(item.Deadline)
		if !ok {
			response.Error(c, http.StatusBadRequest, "invalid payload",
				map[string]string{fmt.Sprintf("[%d].deadline", i): "must be a valid ISO-8601 timestamp"})
			return
		}
		inputs = append(inputs, application.SubtaskInput{
			ID:       item.ID,
			Subject:  subject,
			Deadline: deadline,
			Status:   entity.Status(item.Status),
		})
	}

	subtasks, err := h.Svc.ReplaceSubtasks(c.Request.Context(), h.userID(c), taskID, inputs)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrTaskNotFound):
			response.Error(c, http.StatusNotFound, "task not found", nil)
		case errors.Is(err, application.ErrTaskDeleted):
			response.Error(c, http.StatusBadRequest, "cannot modify subtasks of a deleted task", nil)
		default:
			h.internal(c, err, "failed to replace subtasks")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subtasks": toSubtaskViews(subtasks)}, "subtasks replaced")
}
