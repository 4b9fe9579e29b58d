// Package queue defines message payloads exchanged over the message broker.
package queue

// TaskActivityEvent is published after every committed task-list or task
// mutation. It carries enough information for downstream consumers to log
// or notify without querying the primary database.
type TaskActivityEvent struct {
    TaskListID string `json:"task_list_id"`
    TaskID     string `json:"task_id,omitempty"`
    ActorID    string `json:"actor_id"`
    Action     string `json:"action"` // e.g. task.created, list.deleted
    OccurredAt string `json:"occurred_at"`
}
