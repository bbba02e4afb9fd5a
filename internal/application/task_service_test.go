package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oktavandi/tasknest/internal/domain/entity"
)

func seedUser(t *testing.T, repo *fakeRepo) string {
	t.Helper()
	id := uuid.NewString()
	err := repo.Create(context.Background(), &entity.User{
		ID:           id,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return id
}

func newTaskService(repo *fakeRepo) *TaskService {
	return NewTaskService(repo, nil, testLogger())
}

func TestCreateTaskDefaultsToPending(t *testing.T) {
	repo := newFakeRepo()
	svc := newTaskService(repo)
	userID := seedUser(t, repo)

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{
		Subject:  "write report",
		Deadline: time.Now().AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	require.Equal(t, entity.StatusPending, task.Status)
	require.False(t, task.IsDeleted)
	require.Empty(t, task.Subtasks)

	tasks, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, task.ID, tasks[0].ID)
}

func TestListHidesTombstonedTasks(t *testing.T) {
	repo := newFakeRepo()
	svc := newTaskService(repo)
	userID := seedUser(t, repo)

	keep, err := svc.Create(context.Background(), userID, CreateTaskInput{Subject: "keep", Deadline: time.Now()})
	require.NoError(t, err)
	gone, err := svc.Create(context.Background(), userID, CreateTaskInput{Subject: "gone", Deadline: time.Now()})
	require.NoError(t, err)

	_, err = svc.SoftDelete(context.Background(), userID, gone.ID)
	require.NoError(t, err)

	tasks, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, keep.ID, tasks[0].ID)
}

func TestListUnknownUser(t *testing.T) {
	svc := newTaskService(newFakeRepo())

	_, err := svc.List(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateTaskPartial(t *testing.T) {
	repo := newFakeRepo()
	svc := newTaskService(repo)
	userID := seedUser(t, repo)

	deadline := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Subject: "draft", Deadline: deadline})
	require.NoError(t, err)

	status := entity.StatusDone
	updated, err := svc.Update(context.Background(), userID, task.ID, UpdateTaskInput{Status: &status})
	require.NoError(t, err)
	require.Equal(t, entity.StatusDone, updated.Status)
	require.Equal(t, "draft", updated.Subject)
	require.True(t, updated.Deadline.Equal(deadline))
}

func TestUpdateMissingTask(t *testing.T) {
	repo := newFakeRepo()
	svc := newTaskService(repo)
	userID := seedUser(t, repo)

	subject := "anything"
	_, err := svc.Update(context.Background(), userID, uuid.NewString(), UpdateTaskInput{Subject: &subject})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUpdateTombstonedTaskRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newTaskService(repo)
	userID := seedUser(t, repo)

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Subject: "old", Deadline: time.Now()})
	require.NoError(t, err)
	_, err = svc.SoftDelete(context.Background(), userID, task.ID)
	require.NoError(t, err)

	subject := "new subject"
	_, err = svc.Update(context.Background(), userID, task.ID, UpdateTaskInput{Subject: &subject})
	require.ErrorIs(t, err, ErrTaskDeleted)

	require.Equal(t, "old", repo.storedTask(task.ID).Subject)
}

func TestSoftDeleteIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTaskService(repo)
	userID := seedUser(t, repo)

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Subject: "x", Deadline: time.Now()})
	require.NoError(t, err)

	already, err := svc.SoftDelete(context.Background(), userID, task.ID)
	require.NoError(t, err)
	require.False(t, already)
	writes := repo.updateCalls

	already, err = svc.SoftDelete(context.Background(), userID, task.ID)
	require.NoError(t, err)
	require.True(t, already)
	// second delete is a no-op, nothing written
	require.Equal(t, writes, repo.updateCalls)
	require.True(t, repo.storedTask(task.ID).IsDeleted)
}

func TestSoftDeleteMissingTask(t *testing.T) {
	repo := newFakeRepo()
	svc := newTaskService(repo)
	userID := seedUser(t, repo)

	_, err := svc.SoftDelete(context.Background(), userID, uuid.NewString())
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestListSubtasksHidesTombstones(t *testing.T) {
	repo := newFakeRepo()
	svc := newTaskService(repo)
	userID := seedUser(t, repo)

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Subject: "x", Deadline: time.Now()})
	require.NoError(t, err)

	active := entity.NewSubtask("", task.ID, "visible", time.Now(), entity.StatusPending)
	tomb := entity.NewSubtask("", task.ID, "hidden", time.Now(), entity.StatusPending)
	tomb.IsDeleted = true
	require.NoError(t, repo.ReplaceSubtasks(context.Background(), task.ID, []entity.Subtask{active, tomb}))

	subtasks, err := svc.ListSubtasks(context.Background(), userID, task.ID)
	require.NoError(t, err)
	require.Len(t, subtasks, 1)
	require.Equal(t, "visible", subtasks[0].Subject)
}

func TestListSubtasksOfTombstonedTask(t *testing.T) {
	repo := newFakeRepo()
	svc := newTaskService(repo)
	userID := seedUser(t, repo)

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Subject: "x", Deadline: time.Now()})
	require.NoError(t, err)
	_, err = svc.SoftDelete(context.Background(), userID, task.ID)
	require.NoError(t, err)

	// a tombstoned task answers like a missing one
	_, err = svc.ListSubtasks(context.Background(), userID, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestReplaceSubtasksPreservesTombstones(t *testing.T) {
	repo := newFakeRepo()
	svc := newTaskService(repo)
	userID := seedUser(t, repo)

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Subject: "x", Deadline: time.Now()})
	require.NoError(t, err)

	dropped := entity.NewSubtask("", task.ID, "dropped", time.Now(), entity.StatusPending)
	tomb := entity.NewSubtask("", task.ID, "ghost", time.Now(), entity.StatusPending)
	tomb.IsDeleted = true
	require.NoError(t, repo.ReplaceSubtasks(context.Background(), task.ID, []entity.Subtask{dropped, tomb}))

	keptID := uuid.NewString()
	out, err := svc.ReplaceSubtasks(context.Background(), userID, task.ID, []SubtaskInput{
		{ID: keptID, Subject: "first", Deadline: time.Now(), Status: entity.StatusDone},
		{Subject: "second", Deadline: time.Now()},
	})
	require.NoError(t, err)

	// the answer is the active set in submitted order
	require.Len(t, out, 2)
	require.Equal(t, keptID, out[0].ID)
	require.Equal(t, "first", out[0].Subject)
	require.Equal(t, "second", out[1].Subject)
	require.NotEmpty(t, out[1].ID)

	// the store keeps the tombstone, drops the old active subtask
	stored := repo.storedTask(task.ID).Subtasks
	require.Len(t, stored, 3)
	require.Equal(t, "first", stored[0].Subject)
	require.Equal(t, "second", stored[1].Subject)
	require.Equal(t, "ghost", stored[2].Subject)
	require.True(t, stored[2].IsDeleted)
}

func TestReplaceSubtasksEmptyList(t *testing.T) {
	repo := newFakeRepo()
	svc := newTaskService(repo)
	userID := seedUser(t, repo)

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Subject: "x", Deadline: time.Now()})
	require.NoError(t, err)

	tomb := entity.NewSubtask("", task.ID, "ghost", time.Now(), entity.StatusPending)
	tomb.IsDeleted = true
	require.NoError(t, repo.ReplaceSubtasks(context.Background(), task.ID, []entity.Subtask{tomb}))

	out, err := svc.ReplaceSubtasks(context.Background(), userID, task.ID, nil)
	require.NoError(t, err)
	require.Empty(t, out)

	stored := repo.storedTask(task.ID).Subtasks
	require.Len(t, stored, 1)
	require.True(t, stored[0].IsDeleted)
}

func TestReplaceSubtasksOfTombstonedTask(t *testing.T) {
	repo := newFakeRepo()
	svc := newTaskService(repo)
	userID := seedUser(t, repo)

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Subject: "x", Deadline: time.Now()})
	require.NoError(t, err)
	_, err = svc.SoftDelete(context.Background(), userID, task.ID)
	require.NoError(t, err)

	_, err = svc.ReplaceSubtasks(context.Background(), userID, task.ID, []SubtaskInput{
		{Subject: "nope", Deadline: time.Now()},
	})
	require.ErrorIs(t, err, ErrTaskDeleted)
}
