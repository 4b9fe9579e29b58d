package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/todoiti/todoiti/internal/model"
)

// TaskRepo provides CRUD operations for tasks.  Every mutation filters on
// (id = taskId AND task_list_id = pathListId): a caller who guessed a task
// id but supplied an unrelated list id affects zero rows instead of
// mutating another list's task.  Each mutation also recomputes the owning
// list's status inside the same transaction, maintaining "list is done iff
// all its non-hidden tasks are done" as an aggregate rule rather than a
// per-mutation patch.
type TaskRepo struct {
	db *sql.DB
}

// NewTaskRepo returns a new TaskRepo bound to the given database.
func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{db: db} }

// ListByList fetches every task of a list.
func (r *TaskRepo) ListByList(ctx context.Context, taskListID string) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id,task_list_id,name,description,status,created_by,created_at,updated_at
		 FROM tasks WHERE task_list_id=? ORDER BY created_at`,
		taskListID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// MapByLists fetches the tasks of several lists in one query, keyed by
// list id. Used by the withTasks flag on the list endpoint.
func (r *TaskRepo) MapByLists(ctx context.Context, listIDs []string) (map[string][]model.Task, error) {
	out := make(map[string][]model.Task, len(listIDs))
	if len(listIDs) == 0 {
		return out, nil
	}
	args := make([]interface{}, len(listIDs))
	for i, id := range listIDs {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id,task_list_id,name,description,status,created_by,created_at,updated_at
		 FROM tasks WHERE task_list_id IN (`+placeholders(len(listIDs))+`) ORDER BY created_at`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		out[t.TaskListID] = append(out[t.TaskListID], t)
	}
	return out, nil
}

// GetByID fetches a task, checking list membership in the same query.
func (r *TaskRepo) GetByID(ctx context.Context, taskID, taskListID string) (model.Task, error) {
	var t model.Task
	err := r.db.QueryRowContext(ctx,
		`SELECT id,task_list_id,name,description,status,created_by,created_at,updated_at
		 FROM tasks WHERE id=? AND task_list_id=? LIMIT 1`,
		taskID, taskListID).Scan(&t.ID, &t.TaskListID, &t.Name, &t.Description, &t.Status,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

// Create inserts a task and recomputes the list status transactionally.
func (r *TaskRepo) Create(ctx context.Context, taskListID, creatorID, name, description string) (string, error) {
	id := uuid.NewString()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO tasks (id, task_list_id, name, description, created_by) VALUES (?,?,?,?,?)",
		id, taskListID, name, description, creatorID); err != nil {
		return "", err
	}
	if err := r.recomputeListStatusTx(ctx, tx, taskListID); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	committed = true
	return id, nil
}

// Update changes a task and recomputes the list status transactionally.
// Returns ErrNotFound when the (id, task_list_id) pair matches no row.
func (r *TaskRepo) Update(ctx context.Context, taskID, taskListID, name, description string, status model.Status) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"UPDATE tasks SET name=?, description=?, status=?, updated_at=NOW() WHERE id=? AND task_list_id=?",
		name, description, string(status), taskID, taskListID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if err := r.recomputeListStatusTx(ctx, tx, taskListID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a task and recomputes the list status transactionally.
func (r *TaskRepo) Delete(ctx context.Context, taskID, taskListID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM tasks WHERE id=? AND task_list_id=?",
		taskID, taskListID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if err := r.recomputeListStatusTx(ctx, tx, taskListID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// recomputeListStatusTx re-derives the list status from its task counts.
// The list row is locked first so two concurrent task mutations serialize
// their recomputes instead of racing on the aggregate.
func (r *TaskRepo) recomputeListStatusTx(ctx context.Context, tx *sql.Tx, taskListID string) error {
	var current string
	err := tx.QueryRowContext(ctx,
		"SELECT status FROM task_lists WHERE id=? FOR UPDATE",
		taskListID).Scan(&current)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var nonHidden, done int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(status='done'),0)
		 FROM tasks WHERE task_list_id=? AND status<>'hidden'`,
		taskListID).Scan(&nonHidden, &done); err != nil {
		return err
	}

	next := model.ListStatusFor(model.Status(current), nonHidden, done)
	if string(next) == current {
		return nil
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE task_lists SET status=?, updated_at=NOW() WHERE id=?",
		string(next), taskListID)
	return err
}

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.TaskListID, &t.Name, &t.Description, &t.Status,
			&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
