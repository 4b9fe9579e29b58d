package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/todoiti/todoiti/internal/model"
)

// InviteRepo persists collaboration invites.  An invite is a single-use
// capability hash; acceptance must mint the access grant and consume the
// invite atomically, so Accept runs both writes in one transaction and
// uses the accepted flag itself as the idempotency guard.
type InviteRepo struct {
	db *sql.DB
}

// NewInviteRepo returns a new InviteRepo bound to the given database.
func NewInviteRepo(db *sql.DB) *InviteRepo { return &InviteRepo{db: db} }

// Create inserts a pending invite. Hash and link are generated by the
// caller; the hash must be unguessable since anyone presenting it can
// redeem the invite.
func (r *InviteRepo) Create(ctx context.Context, hash, taskListID, inviterID, link string, level model.AccessLevel, expiresAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO collaboration_invites (id, hash, task_list_id, inviter_id, access_level, expires_at, link)
		 VALUES (?,?,?,?,?,?,?)`,
		id, hash, taskListID, inviterID, uint8(level), expiresAt, link)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetByHash fetches an invite by its hash. Used unauthenticated for the
// public preview, so callers decide how much of the row to expose.
func (r *InviteRepo) GetByHash(ctx context.Context, hash string) (model.Invite, error) {
	return scanInvite(r.db.QueryRowContext(ctx,
		`SELECT id, hash, task_list_id, inviter_id, accepter_id, access_level, expires_at, accepted, link, created_at, updated_at
		 FROM collaboration_invites WHERE hash=? LIMIT 1`,
		hash))
}

// Accept redeems an invite for the given user. In one transaction it
// inserts the access grant (delegated by the original inviter at the
// invite's level) and marks the invite accepted. The UPDATE is guarded by
// accepted=FALSE: of two concurrent redemptions, the loser sees zero rows
// affected, gets ErrInviteAccepted and rolls its grant back. Returns the
// task list id the accepter now has access to.
func (r *InviteRepo) Accept(ctx context.Context, hash, accepterID string) (string, error) {
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

	inv, err := scanInvite(tx.QueryRowContext(ctx,
		`SELECT id, hash, task_list_id, inviter_id, accepter_id, access_level, expires_at, accepted, link, created_at, updated_at
		 FROM collaboration_invites WHERE hash=? LIMIT 1 FOR UPDATE`,
		hash))
	if err != nil {
		return "", err
	}
	if inv.Accepted {
		return "", ErrInviteAccepted
	}
	now := time.Now().UTC()
	if inv.Expired(now) {
		return "", ErrInviteExpired
	}

	// At most one effective grant may exist per (task list, user) pair.
	// An accepter who already holds a non-expired grant keeps it at its
	// current level and the invite stays pending; without this check the
	// newest-row resolution in AccessRepo.Get would let a redeemed invite
	// silently overwrite the existing level, demoting even the creator's
	// admin grant.
	var existing uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM task_list_access
		 WHERE delegated_to=? AND task_list_id=? AND (expires_at IS NULL OR expires_at > ?)
		 ORDER BY created_at DESC LIMIT 1 FOR UPDATE`,
		accepterID, inv.TaskListID, now).Scan(&existing)
	if err == nil {
		return "", ErrAlreadyCollaborator
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO task_list_access (task_list_id, delegated_to, delegated_by, level)
		 VALUES (?,?,?,?)`,
		inv.TaskListID, accepterID, inv.InviterID, uint8(inv.AccessLevel)); err != nil {
		return "", err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE collaboration_invites SET accepted=TRUE, accepter_id=?, updated_at=NOW()
		 WHERE hash=? AND accepted=FALSE`,
		accepterID, hash)
	if err != nil {
		return "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", ErrInviteAccepted
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	committed = true
	return inv.TaskListID, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvite(row rowScanner) (model.Invite, error) {
	var (
		inv        model.Invite
		accepterID sql.NullString
		level      uint8
	)
	err := row.Scan(&inv.ID, &inv.Hash, &inv.TaskListID, &inv.InviterID, &accepterID,
		&level, &inv.ExpiresAt, &inv.Accepted, &inv.Link, &inv.CreatedAt, &inv.UpdatedAt)
	if err == sql.ErrNoRows {
		return inv, ErrNotFound
	}
	if err != nil {
		return inv, err
	}
	inv.AccessLevel = model.AccessLevel(level)
	if accepterID.Valid {
		s := accepterID.String
		inv.AccepterID = &s
	}
	return inv, nil
}
