package model

import "time"

// Urgency levels accepted for a task. Anything else is rejected at
// validation time.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// TaskMaxLen caps the task description length.
const TaskMaxLen = 100

// Task mirrors the 'tasks' table. CreatedBy is the authorization anchor:
// set once at creation and never reassigned.
type Task struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Urgency   string    `json:"urgency"`
	Completed bool      `json:"completed"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidUrgency reports whether s is one of the accepted urgency levels.
func ValidUrgency(s string) bool {
	switch s {
	case UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}
