package application

import (
	"context"
	"errors"

	"github.com/oktavandi/tasknest/internal/domain/entity"
	"github.com/oktavandi/tasknest/internal/domain/repository"
)

// fakeRepo is an in-memory UserRepository. Lookups hand out deep copies
// so services cannot mutate the store without going through a write.
type fakeRepo struct {
	users       map[string]*entity.User
	updateCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*entity.User{}}
}

var _ repository.UserRepository = (*fakeRepo)(nil)

func copyUser(u *entity.User) *entity.User {
	cp := *u
	cp.Tasks = make([]entity.Task, len(u.Tasks))
	for i, t := range u.Tasks {
		cp.Tasks[i] = t
		cp.Tasks[i].Subtasks = append([]entity.Subtask(nil), t.Subtasks...)
	}
	return &cp
}

func (f *fakeRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.users[u.ID] = copyUser(u)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) AddTask(_ context.Context, t *entity.Task) error {
	u, ok := f.users[t.OwnerID]
	if !ok {
		return errors.New("owner not found")
	}
	cp := *t
	cp.Subtasks = append([]entity.Subtask(nil), t.Subtasks...)
	u.Tasks = append(u.Tasks, cp)
	return nil
}

func (f *fakeRepo) UpdateTask(_ context.Context, t *entity.Task) error {
	f.updateCalls++
	for _, u := range f.users {
		for i := range u.Tasks {
			if u.Tasks[i].ID == t.ID {
				subtasks := u.Tasks[i].Subtasks
				u.Tasks[i] = *t
				u.Tasks[i].Subtasks = subtasks
				return nil
			}
		}
	}
	return errors.New("task not found")
}

func (f *fakeRepo) ReplaceSubtasks(_ context.Context, taskID string, subtasks []entity.Subtask) error {
	for _, u := range f.users {
		for i := range u.Tasks {
			if u.Tasks[i].ID == taskID {
				u.Tasks[i].Subtasks = append([]entity.Subtask(nil), subtasks...)
				return nil
			}
		}
	}
	return errors.New("task not found")
}

// storedTask reads a task straight from the store, tombstones included.
func (f *fakeRepo) storedTask(taskID string) *entity.Task {
	for _, u := range f.users {
		for i := range u.Tasks {
			if u.Tasks[i].ID == taskID {
				return &u.Tasks[i]
			}
		}
	}
	return nil
}
