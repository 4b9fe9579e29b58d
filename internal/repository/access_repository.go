package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/todoiti/todoiti/internal/model"
)

// AccessRepo is the authorization core: it answers "what level does this
// user hold on this task list". Grants are never hard-deleted; a grant
// past its expires_at is simply not effective any more, and expired rows
// may coexist with a fresh one for the same pair. Get returns the newest
// grant so a re-invite supersedes a lapsed grant.
type AccessRepo struct{ DB *sql.DB }

func NewAccessRepo(db *sql.DB) *AccessRepo { return &AccessRepo{DB: db} }

// Get fetches the most recent grant for the (user, task list) pair.
// Returns ErrNotFound when no grant exists at all; callers must translate
// that into a generic 404 so unauthorized users cannot probe list ids.
func (r *AccessRepo) Get(ctx context.Context, userID, taskListID string) (model.AccessGrant, error) {
	var (
		g         model.AccessGrant
		level     uint8
		expiresAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, task_list_id, delegated_to, delegated_by, level, expires_at, created_at, updated_at
		 FROM task_list_access
		 WHERE delegated_to=? AND task_list_id=?
		 ORDER BY created_at DESC LIMIT 1`,
		userID, taskListID).Scan(&g.ID, &g.TaskListID, &g.DelegatedTo, &g.DelegatedBy,
		&level, &expiresAt, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return g, ErrNotFound
	}
	if err != nil {
		return g, err
	}
	g.Level = model.AccessLevel(level)
	if expiresAt.Valid {
		t := expiresAt.Time
		g.ExpiresAt = &t
	}
	return g, nil
}

// ListAccessible returns the ids of every task list the user holds a
// non-expired grant on. Used to scope list queries instead of
// post-filtering.
func (r *AccessRepo) ListAccessible(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT task_list_id FROM task_list_access
		 WHERE delegated_to=? AND level > 0 AND (expires_at IS NULL OR expires_at > ?)`,
		userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GrantTx inserts a grant within the scope of an existing transaction.
// Used by task-list creation (owner admin grant) and invite acceptance,
// both of which must commit the grant atomically with a second write.
func (r *AccessRepo) GrantTx(ctx context.Context, tx *sql.Tx, taskListID, delegatedTo, delegatedBy string, level model.AccessLevel, expiresAt *time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO task_list_access (task_list_id, delegated_to, delegated_by, level, expires_at)
		 VALUES (?,?,?,?,?)`,
		taskListID, delegatedTo, delegatedBy, uint8(level), expiresAt)
	return err
}
