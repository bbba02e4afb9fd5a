package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oktavandi/tasknest/internal/domain/entity"
	"github.com/oktavandi/tasknest/internal/domain/repository"
)

const uniqueViolation = "23505"

var errTaskMissing = errors.New("task row not found")

// UserRepository stores the aggregate across normalized tables
// (users/tasks/subtasks) with explicit ownership columns. Insertion
// order is kept in a position column so listings never depend on
// timestamp ties.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, u.ID, u.Name, u.Email, u.PasswordHash)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getUser(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getUser(ctx, "email", email)
}

func (r *UserRepository) getUser(ctx context.Context, column, value string) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE `+column+` = $1
	`, value)

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadTasks(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// loadTasks fills u.Tasks with the complete aggregate, tombstones
// included, ordered by position at both levels.
func (r *UserRepository) loadTasks(ctx context.Context, u *entity.User) error {
	u.Tasks = []entity.Task{}

	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, subject, deadline, status, is_deleted, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1
		ORDER BY position
	`, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var t entity.Task
		var status string
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Subject, &t.Deadline, &status,
			&t.IsDeleted, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return err
		}
		t.Status = entity.Status(status)
		t.Subtasks = []entity.Subtask{}
		index[t.ID] = len(u.Tasks)
		u.Tasks = append(u.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(u.Tasks) == 0 {
		return nil
	}

	subRows, err := r.pool.Query(ctx, `
		SELECT s.id, s.task_id, s.subject, s.deadline, s.status, s.is_deleted, s.created_at, s.updated_at
		FROM subtasks s
		JOIN tasks t ON t.id = s.task_id
		WHERE t.owner_id = $1
		ORDER BY s.position
	`, u.ID)
	if err != nil {
		return err
	}
	defer subRows.Close()

	for subRows.Next() {
		var st entity.Subtask
		var status string
		if err := subRows.Scan(&st.ID, &st.TaskID, &st.Subject, &st.Deadline, &status,
			&st.IsDeleted, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return err
		}
		st.Status = entity.Status(status)
		if i, ok := index[st.TaskID]; ok {
			u.Tasks[i].Subtasks = append(u.Tasks[i].Subtasks, st)
		}
	}
	return subRows.Err()
}

func (r *UserRepository) AddTask(ctx context.Context, t *entity.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (id, owner_id, subject, deadline, status, is_deleted, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM tasks WHERE owner_id = $2),
			$7, $8)
	`, t.ID, t.OwnerID, t.Subject, t.Deadline, string(t.Status), t.IsDeleted,
		t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *UserRepository) UpdateTask(ctx context.Context, t *entity.Task) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET subject = $1, deadline = $2, status = $3, is_deleted = $4, updated_at = $5
		WHERE id = $6 AND owner_id = $7
	`, t.Subject, t.Deadline, string(t.Status), t.IsDeleted, t.UpdatedAt, t.ID, t.OwnerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errTaskMissing
	}
	return nil
}

func (r *UserRepository) ReplaceSubtasks(ctx context.Context, taskID string, subtasks []entity.Subtask) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM subtasks WHERE task_id = $1`, taskID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, st := range subtasks {
		batch.Queue(`
			INSERT INTO subtasks (id, task_id, subject, deadline, status, is_deleted, position, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, st.ID, taskID, st.Subject, st.Deadline, string(st.Status), st.IsDeleted,
			i, st.CreatedAt, st.UpdatedAt)
	}
	batch.Queue(`UPDATE tasks SET updated_at = now() WHERE id = $1`, taskID)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

var _ repository.UserRepository = (*UserRepository)(nil)
