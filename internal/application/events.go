package application

import "time"

// TaskEvent is the message published to the task event queue after a
// successful mutation. Publishing is best-effort and never fails the
// request.
type TaskEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"user_id"`
	TaskID string    `json:"task_id"`
	At     time.Time `json:"at"`
}

const (
	EventTaskCreated      = "task.created"
	EventTaskDeleted      = "task.deleted"
	EventSubtasksReplaced = "task.subtasks_replaced"
)
