package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oktavandi/tasknest/internal/domain/entity"
	repo "github.com/oktavandi/tasknest/internal/domain/repository"
	"github.com/oktavandi/tasknest/pkg/helpers"
)

// TaskService implements the soft-delete CRUD over one user's task
// list. Every call loads the aggregate fresh; tombstoned entities are
// invisible to reads and immutable to writes.
type TaskService struct {
	Repo   repo.UserRepository
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewTaskService(r repo.UserRepository, pub *helpers.RabbitPublisher, logger *logrus.Logger) *TaskService {
	return &TaskService{Repo: r, Pub: pub, Logger: logger}
}

type CreateTaskInput struct {
	Subject  string
	Deadline time.Time
	Status   entity.Status
}

// UpdateTaskInput carries a partial update: nil fields stay untouched.
type UpdateTaskInput struct {
	Subject  *string
	Deadline *time.Time
	Status   *entity.Status
}

type SubtaskInput struct {
	ID       string // empty mints a fresh id
	Subject  string
	Deadline time.Time
	Status   entity.Status
}

func (s *TaskService) loadUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List returns the user's non-tombstoned tasks, each with its
// non-tombstoned subtasks, in insertion order.
func (s *TaskService) List(ctx context.Context, userID string) ([]entity.Task, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return entity.ActiveTasks(u.Tasks), nil
}

// Create appends a new active task with no subtasks to the user's list.
func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*entity.Task, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	t := entity.NewTask(u.ID, in.Subject, in.Deadline, in.Status)
	if err := s.Repo.AddTask(ctx, t); err != nil {
		return nil, err
	}
	s.publish(ctx, EventTaskCreated, u.ID, t.ID)
	return t, nil
}

// Update applies a partial update to an active task. Tombstoned tasks
// are immutable and answer ErrTaskDeleted.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, in UpdateTaskInput) (*entity.Task, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	t := entity.FindTask(u.Tasks, taskID)
	if t == nil {
		return nil, ErrTaskNotFound
	}
	if t.IsDeleted {
		return nil, ErrTaskDeleted
	}

	if in.Subject != nil {
		t.Subject = *in.Subject
	}
	if in.Deadline != nil {
		t.Deadline = *in.Deadline
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.Repo.UpdateTask(ctx, t); err != nil {
		return nil, err
	}

	view := *t
	view.Subtasks = entity.ActiveSubtasks(t.Subtasks)
	return &view, nil
}

// SoftDelete tombstones a task. Deleting an already tombstoned task is
// a success without re-mutating; alreadyDeleted tells the two apart.
func (s *TaskService) SoftDelete(ctx context.Context, userID, taskID string) (alreadyDeleted bool, err error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return false, err
	}
	t := entity.FindTask(u.Tasks, taskID)
	if t == nil {
		return false, ErrTaskNotFound
	}
	if t.IsDeleted {
		return true, nil
	}

	t.IsDeleted = true
	t.UpdatedAt = time.Now().UTC()
	if err := s.Repo.UpdateTask(ctx, t); err != nil {
		return false, err
	}
	s.publish(ctx, EventTaskDeleted, u.ID, t.ID)
	return false, nil
}

// ListSubtasks returns the non-tombstoned subtasks of an active task.
// A tombstoned task is as absent as a missing one.
func (s *TaskService) ListSubtasks(ctx context.Context, userID, taskID string) ([]entity.Subtask, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	t := entity.FindTask(u.Tasks, taskID)
	if t == nil || t.IsDeleted {
		return nil, ErrTaskNotFound
	}
	return entity.ActiveSubtasks(t.Subtasks), nil
}

// ReplaceSubtasks swaps the task's entire active subtask set for the
// incoming list. Items carrying an id keep it, the rest get fresh ones,
// and every previously tombstoned subtask survives the replace. Returns
// the new active set in submitted order.
func (s *TaskService) ReplaceSubtasks(ctx context.Context, userID, taskID string, incoming []SubtaskInput) ([]entity.Subtask, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	t := entity.FindTask(u.Tasks, taskID)
	if t == nil {
		return nil, ErrTaskNotFound
	}
	if t.IsDeleted {
		return nil, ErrTaskDeleted
	}

	replacement := make([]entity.Subtask, 0, len(incoming))
	for _, in := range incoming {
		replacement = append(replacement, entity.NewSubtask(in.ID, t.ID, in.Subject, in.Deadline, in.Status))
	}

	merged := entity.MergeSubtasks(t.Subtasks, replacement)
	if err := s.Repo.ReplaceSubtasks(ctx, t.ID, merged); err != nil {
		return nil, err
	}
	s.publish(ctx, EventSubtasksReplaced, u.ID, t.ID)
	return entity.ActiveSubtasks(merged), nil
}

func (s *TaskService) publish(ctx context.Context, eventType, userID, taskID string) {
	if s.Pub == nil {
		return
	}
	ev := TaskEvent{Type: eventType, UserID: userID, TaskID: taskID, At: time.Now().UTC()}
	if err := s.Pub.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"event":   eventType,
			"task_id": taskID,
		}).Warn("publish task event failed")
	}
}
