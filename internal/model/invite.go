package model

import "time"

// Invite mirrors a row of the `collaboration_invites` table.  An invite is
// a single-use capability: whoever presents its hash while the invite is
// pending can mint an access grant at the invite's level.  Expiry is
// derived from ExpiresAt at read time; there is no background sweep and no
// stored "expired" state.
//
// Lifecycle: pending (accepted=false, now < expires_at) -> accepted
// (terminal) or expired (terminal, derived).
type Invite struct {
    ID          string      // collaboration_invites.id
    Hash        string      // collaboration_invites.hash (unguessable token)
    TaskListID  string      // collaboration_invites.task_list_id
    InviterID   string      // collaboration_invites.inviter_id
    AccepterID  *string     // collaboration_invites.accepter_id (nullable)
    AccessLevel AccessLevel // collaboration_invites.access_level
    ExpiresAt   time.Time   // collaboration_invites.expires_at
    Accepted    bool        // collaboration_invites.accepted
    Link        string      // collaboration_invites.link
    CreatedAt   time.Time   // collaboration_invites.created_at
    UpdatedAt   time.Time   // collaboration_invites.updated_at
}

// Expired reports whether the invite has lapsed at the given instant.
func (i Invite) Expired(now time.Time) bool {
    return !now.Before(i.ExpiresAt)
}
