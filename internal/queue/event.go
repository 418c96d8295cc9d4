// Package queue defines message payloads exchanged over the message broker
// and the publisher that delivers them.
package queue

// Event types published to the task.events queue.
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

// TaskEvent is published whenever a task is created, updated or deleted.
// It carries enough information for downstream consumers to log or trigger
// notifications without querying the primary database.
type TaskEvent struct {
	Type       string `json:"type"`
	TaskID     string `json:"task_id"`
	UserID     string `json:"user_id"`
	Task       string `json:"task"`
	OccurredAt string `json:"occurred_at"`
}
