package repository

import (
	"context"
	"errors"

	"github.com/oktavandi/tasknest/internal/domain/entity"
)

// ErrDuplicateEmail is returned by Create when the email is already
// registered. The unique index is the authority; callers pre-checking
// with GetByEmail still need to handle this on races.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository persists User aggregates. Lookups return (nil, nil)
// when no user matches. Task-level writes mutate individual rows so two
// requests touching different tasks of the same user never clobber each
// other.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	AddTask(ctx context.Context, t *entity.Task) error
	UpdateTask(ctx context.Context, t *entity.Task) error
	// ReplaceSubtasks swaps the entire stored subtask set of a task for
	// the given one, atomically, keeping slice order as storage order.
	ReplaceSubtasks(ctx context.Context, taskID string, subtasks []entity.Subtask) error
}
