package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/model"
)

// TaskStore is the task persistence collaborator. Listing is always scoped
// to a creator: there is no cross-user query surface.
type TaskStore interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	GetByID(ctx context.Context, id string) (model.Task, error)
	ListByCreator(ctx context.Context, userID string, offset, limit int) ([]model.Task, error)
	CountByCreator(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, t model.Task) (model.Task, error)
	Delete(ctx context.Context, id string) error
}

// TaskRepo is the MySQL-backed TaskStore.
type TaskRepo struct{ DB *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{DB: db} }

// Create inserts the task with a fresh id and returns the stored record.
// CreatedBy must already be set by the caller; it is never changed again.
func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	t.ID = uuid.NewString()
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO tasks (id, task, urgency, completed, created_by, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		t.ID, t.Task, t.Urgency, t.Completed, t.CreatedBy, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// GetByID fetches a task by id.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (model.Task, error) {
	var t model.Task
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,task,urgency,completed,created_by,created_at,updated_at FROM tasks WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.Task, &t.Urgency, &t.Completed, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Task{}, ErrTaskNotFound
	}
	return t, err
}

// ListByCreator returns a page of the user's tasks in creation order.
func (r *TaskRepo) ListByCreator(ctx context.Context, userID string, offset, limit int) ([]model.Task, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,task,urgency,completed,created_by,created_at,updated_at FROM tasks WHERE created_by=? ORDER BY created_at, id LIMIT ? OFFSET ?",
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0, limit)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Task, &t.Urgency, &t.Completed, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CountByCreator returns the total number of the user's tasks.
func (r *TaskRepo) CountByCreator(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE created_by=?", userID).Scan(&n)
	return n, err
}

// Update persists the mutable fields of a task and returns the updated
// record. The creator column is deliberately absent from the SET list.
func (r *TaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tasks SET task=?, urgency=?, completed=?, updated_at=? WHERE id=?",
		t.Task, t.Urgency, t.Completed, t.UpdatedAt, t.ID)
	if err != nil {
		return model.Task{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Row may still exist when the update was a no-op; confirm.
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return model.Task{}, err
		}
	}
	return t, nil
}

// Delete removes a task by id.
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tasks WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTaskNotFound
	}
	return nil
}
