package model

import "time"

// AccessLevel is the ordinal scale used for every authorization decision.
// Each check is a single integer comparison against this total order:
// suspended(0) < read(1) < write(2) < admin(3).
type AccessLevel uint8

const (
    AccessSuspended AccessLevel = 0 // grant exists but is blocked
    AccessRead      AccessLevel = 1 // may view the list and its tasks
    AccessWrite     AccessLevel = 2 // may mutate tasks and list fields
    AccessAdmin     AccessLevel = 3 // may delete the list and invite others
)

// Satisfies reports whether the level grants an operation that requires
// the given level.  Monotonic: a level satisfies every level below it.
func (l AccessLevel) Satisfies(required AccessLevel) bool { return l >= required }

// String returns the lower-case name used in responses and logs.
func (l AccessLevel) String() string {
    switch l {
    case AccessSuspended:
        return "suspended"
    case AccessRead:
        return "read"
    case AccessWrite:
        return "write"
    case AccessAdmin:
        return "admin"
    }
    return "unknown"
}

// ParseAccessLevel validates a numeric level from a request payload.
func ParseAccessLevel(n int) (AccessLevel, bool) {
    if n < int(AccessSuspended) || n > int(AccessAdmin) {
        return 0, false
    }
    return AccessLevel(n), true
}

// AccessGrant mirrors a row of the `task_list_access` table.  At most one
// effective (non-expired) grant exists per (task list, user) pair; the
// invariant is enforced at query time by filtering expired rows, so stale
// rows may coexist with a fresh one.
//
// Fields:
//  ID          – primary key identifier.
//  TaskListID  – the task list the grant applies to.
//  DelegatedTo – the user receiving access.
//  DelegatedBy – the user who granted it (creator or inviter).
//  Level       – ordinal access level.
//  ExpiresAt   – optional expiry; nil means the grant never expires.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type AccessGrant struct {
    ID          uint64      // task_list_access.id
    TaskListID  string      // task_list_access.task_list_id
    DelegatedTo string      // task_list_access.delegated_to
    DelegatedBy string      // task_list_access.delegated_by
    Level       AccessLevel // task_list_access.level
    ExpiresAt   *time.Time  // task_list_access.expires_at (nullable)
    CreatedAt   time.Time   // task_list_access.created_at
    UpdatedAt   time.Time   // task_list_access.updated_at
}

// Expired reports whether the grant has lapsed at the given instant.
// A nil ExpiresAt never expires.
func (g AccessGrant) Expired(now time.Time) bool {
    return g.ExpiresAt != nil && !now.Before(*g.ExpiresAt)
}
