package model

import "time"

// Status is shared by task lists and tasks.
type Status string

const (
    StatusActive Status = "active"
    StatusDone   Status = "done"
    StatusHidden Status = "hidden"
)

// ParseStatus validates a status string from a request payload.
func ParseStatus(s string) (Status, bool) {
    switch Status(s) {
    case StatusActive, StatusDone, StatusHidden:
        return Status(s), true
    }
    return "", false
}

// TaskList mirrors a row of the `task_lists` table.  Deleting a list
// cascades to its tasks, grants and invites at the database level.
type TaskList struct {
    ID          string    // task_lists.id
    Name        string    // task_lists.name
    Description string    // task_lists.description
    Status      Status    // task_lists.status
    CreatedBy   string    // task_lists.created_by
    CreatedAt   time.Time // task_lists.created_at
    UpdatedAt   time.Time // task_lists.updated_at
}

// Task mirrors a row of the `tasks` table.  A task always belongs to
// exactly one list.
type Task struct {
    ID          string    // tasks.id
    TaskListID  string    // tasks.task_list_id
    Name        string    // tasks.name
    Description string    // tasks.description
    Status      Status    // tasks.status
    CreatedBy   string    // tasks.created_by
    CreatedAt   time.Time // tasks.created_at
    UpdatedAt   time.Time // tasks.updated_at
}

// ListStatusFor derives a list's status from its task counts after a task
// mutation.  The target invariant is "list is done iff all its non-hidden
// tasks are done": completing the last active task promotes the list,
// reopening any task demotes it.  Hidden lists keep their status, and a
// list with no visible tasks is left as-is so deleting the final task does
// not flip an empty list to done.
func ListStatusFor(current Status, nonHidden, done int) Status {
    if current == StatusHidden {
        return current
    }
    if nonHidden == 0 {
        return current
    }
    if done == nonHidden {
        return StatusDone
    }
    return StatusActive
}
