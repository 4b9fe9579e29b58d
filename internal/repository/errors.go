// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrNotFound covers both a genuinely absent row and a task
// whose task_list_id does not match the one supplied in the URL, while
// the invite sentinels mark the two terminal states a redemption can
// run into.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row, or when a task
// mutation filtered on (id, task_list_id) affects zero rows. Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrInviteAccepted is returned when redeeming an invite that has already
// been accepted. Handlers should translate this into an HTTP 400
// response. The second of two racing redemptions receives this error.
var ErrInviteAccepted = errors.New("invite already accepted")

// ErrInviteExpired is returned when redeeming an invite past its
// expires_at. Expiry is derived at read time; no row transitions to an
// expired state. Handlers should translate this into an HTTP 400 response.
var ErrInviteExpired = errors.New("invite expired")

// ErrAlreadyCollaborator is returned when the accepter of an invite
// already holds an effective grant on the invite's task list. The invite
// stays pending and the existing grant keeps its level, so a list's
// creator can never demote themselves by redeeming their own link.
// Handlers should translate this into an HTTP 400 response.
var ErrAlreadyCollaborator = errors.New("already a collaborator")
