package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/todoiti/todoiti/internal/model"
)

// TaskListRepo provides CRUD operations for task lists.  Creation and the
// status cascade are multi-statement writes and run inside their own
// transactions so a failure leaves no partial state behind.  Deleting a
// list relies on the foreign key cascades to remove its tasks, grants
// and invites.
type TaskListRepo struct {
	db *sql.DB
}

// NewTaskListRepo returns a new TaskListRepo bound to the given database.
func NewTaskListRepo(db *sql.DB) *TaskListRepo { return &TaskListRepo{db: db} }

// DB exposes the underlying handle for callers that need to coordinate a
// transaction across repositories.
func (r *TaskListRepo) DB() *sql.DB { return r.db }

// Create inserts the task list and the creator's admin grant in one
// transaction. Every task list in existence therefore has its creator as
// admin; there is no code path that creates a list without the grant.
func (r *TaskListRepo) Create(ctx context.Context, ownerID, name, description string) (string, error) {
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
		"INSERT INTO task_lists (id, name, description, created_by) VALUES (?,?,?,?)",
		id, name, description, ownerID); err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO task_list_access (task_list_id, delegated_to, delegated_by, level)
		 VALUES (?,?,?,?)`,
		id, ownerID, ownerID, uint8(model.AccessAdmin)); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	committed = true
	return id, nil
}

// GetByID fetches a task list by id.
func (r *TaskListRepo) GetByID(ctx context.Context, id string) (model.TaskList, error) {
	var l model.TaskList
	err := r.db.QueryRowContext(ctx,
		"SELECT id,name,description,status,created_by,created_at,updated_at FROM task_lists WHERE id=? LIMIT 1",
		id).Scan(&l.ID, &l.Name, &l.Description, &l.Status, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return l, ErrNotFound
	}
	return l, err
}

// List returns the task lists whose ids are in the caller's accessible
// set. When onlyPersonal is set the result is additionally restricted to
// lists the user created. An empty accessible set short-circuits to an
// empty slice without touching the database.
func (r *TaskListRepo) List(ctx context.Context, accessibleIDs []string, userID string, onlyPersonal bool) ([]model.TaskList, error) {
	if len(accessibleIDs) == 0 {
		return []model.TaskList{}, nil
	}

	query := `SELECT id,name,description,status,created_by,created_at,updated_at
		 FROM task_lists WHERE id IN (` + placeholders(len(accessibleIDs)) + `)`
	args := make([]interface{}, 0, len(accessibleIDs)+1)
	for _, id := range accessibleIDs {
		args = append(args, id)
	}
	if onlyPersonal {
		query += " AND created_by=?"
		args = append(args, userID)
	}
	query += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []model.TaskList{}
	for rows.Next() {
		var l model.TaskList
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.Status, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// Update changes name, description and status of a list.
func (r *TaskListRepo) Update(ctx context.Context, id, name, description string, status model.Status) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE task_lists SET name=?, description=?, status=?, updated_at=NOW() WHERE id=?",
		name, description, string(status), id)
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
	return nil
}

// SetStatus sets the list status and, when cascade is true, sets every
// child task to the same status in the same transaction. Models "mark
// whole list done/active" from the UI.
func (r *TaskListRepo) SetStatus(ctx context.Context, id string, status model.Status, cascade bool) error {
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
		"UPDATE task_lists SET status=?, updated_at=NOW() WHERE id=?",
		string(status), id)
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
	if cascade {
		if _, err := tx.ExecContext(ctx,
			"UPDATE tasks SET status=?, updated_at=NOW() WHERE task_list_id=?",
			string(status), id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes the task list. Tasks, grants and invites go with it via
// the database foreign key cascades.
func (r *TaskListRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM task_lists WHERE id=?", id)
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
	return nil
}

// placeholders builds "?,?,?" for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
