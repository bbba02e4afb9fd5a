package entity

import (
	"time"

	"github.com/google/uuid"
)

// Status is the workflow state of a task or subtask. Any state is
// reachable from any other via update; deletion is a separate tombstone
// flag, not a status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the known workflow states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is one unit of work owned by exactly one user. A task is never
// physically removed: deletion sets the IsDeleted tombstone, which hides
// it from every read and makes it immutable.
type Task struct {
	ID        string
	OwnerID   string
	Subject   string
	Deadline  time.Time
	Status    Status
	IsDeleted bool
	Subtasks  []Subtask
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtask mirrors Task minus nesting, owned by exactly one task.
type Subtask struct {
	ID        string
	TaskID    string
	Subject   string
	Deadline  time.Time
	Status    Status
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTask builds an active task with a fresh id and an empty subtask
// list. An empty status defaults to pending.
func NewTask(ownerID, subject string, deadline time.Time, status Status) *Task {
	if status == "" {
		status = StatusPending
	}
	now := time.Now().UTC()
	return &Task{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Subject:   subject,
		Deadline:  deadline,
		Status:    status,
		Subtasks:  []Subtask{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewSubtask builds an active subtask. A caller-supplied id is kept so a
// bulk replace can carry an existing subtask over; an empty id gets a
// fresh one.
func NewSubtask(id, taskID, subject string, deadline time.Time, status Status) Subtask {
	if id == "" {
		id = uuid.NewString()
	}
	if status == "" {
		status = StatusPending
	}
	now := time.Now().UTC()
	return Subtask{
		ID:        id,
		TaskID:    taskID,
		Subject:   subject,
		Deadline:  deadline,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FindTask returns a pointer to the task with the given id, tombstoned
// or not, or nil when absent. The pointer aliases the slice element so
// callers can mutate in place.
func FindTask(tasks []Task, id string) *Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

// ActiveTasks returns the non-tombstoned tasks in their original order,
// each carrying only its non-tombstoned subtasks. The input is not
// modified.
func ActiveTasks(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsDeleted {
			continue
		}
		t.Subtasks = ActiveSubtasks(t.Subtasks)
		out = append(out, t)
	}
	return out
}

// ActiveSubtasks returns the non-tombstoned subtasks in original order.
func ActiveSubtasks(subtasks []Subtask) []Subtask {
	out := make([]Subtask, 0, len(subtasks))
	for _, st := range subtasks {
		if !st.IsDeleted {
			out = append(out, st)
		}
	}
	return out
}

// MergeSubtasks computes the full stored subtask set after a bulk
// replace: the replacement list wins in its submitted order, previously
// active subtasks omitted from it are dropped, and every already
// tombstoned subtask survives unconditionally, appended after the new
// set.
func MergeSubtasks(existing, replacement []Subtask) []Subtask {
	merged := make([]Subtask, 0, len(replacement)+len(existing))
	merged = append(merged, replacement...)
	for _, st := range existing {
		if st.IsDeleted {
			merged = append(merged, st)
		}
	}
	return merged
}
