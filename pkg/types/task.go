package types

import "time"

// Task states.
const (
	StatusOnHold     = "ON_HOLD"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Task priorities.
const (
	PriorityHigh    = "HIGH"
	PriorityRegular = "REGULAR"
	PriorityLow     = "LOW"
)

// validStatuses is the set of recognized task status values.
var validStatuses = map[string]bool{
	StatusOnHold:     true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// validPriorities is the set of recognized task priority values.
var validPriorities = map[string]bool{
	PriorityHigh:    true,
	PriorityRegular: true,
	PriorityLow:     true,
}

// ValidStatus reports whether status is a recognized status value.
func ValidStatus(status string) bool {
	return validStatuses[status]
}

// ValidPriority reports whether priority is a recognized priority value.
func ValidPriority(priority string) bool {
	return validPriorities[priority]
}

// Mutable task field names, as reported by ChangedFields. AuthorID, ID, and
// the timestamps are immutable through the update path and never appear in
// a diff.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldExecutor    = "executorId"
)

// Task represents a unit of work. AuthorID is required and immutable after
// creation; ExecutorID is optional (nil means unassigned) and mutable by
// the author only.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	AuthorID    int64     `json:"author_id"`
	ExecutorID  *int64    `json:"executor_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SetStatus sets the task status to the given value.
// Returns ErrInvalidStatus if the status is not recognized.
// Idempotent: setting the current status succeeds without error.
// Stamping UpdatedAt is the caller's responsibility.
func (t *Task) SetStatus(status string) error {
	if !validStatuses[status] {
		return ErrInvalidStatus
	}
	t.Status = status
	return nil
}

// SetPriority sets the task priority to the given value.
// Returns ErrInvalidPriority if the priority is not recognized.
// Stamping UpdatedAt is the caller's responsibility.
func (t *Task) SetPriority(priority string) error {
	if !validPriorities[priority] {
		return ErrInvalidPriority
	}
	t.Priority = priority
	return nil
}

// ChangedFields compares the stored task t against an incoming task and
// returns the set of mutable field names whose values differ. Only title,
// description, status, priority, and executorId participate in the diff.
func (t *Task) ChangedFields(incoming *Task) map[string]bool {
	changed := make(map[string]bool)

	if t.Title != incoming.Title {
		changed[FieldTitle] = true
	}
	if t.Description != incoming.Description {
		changed[FieldDescription] = true
	}
	if t.Status != incoming.Status {
		changed[FieldStatus] = true
	}
	if t.Priority != incoming.Priority {
		changed[FieldPriority] = true
	}
	if !executorEqual(t.ExecutorID, incoming.ExecutorID) {
		changed[FieldExecutor] = true
	}

	return changed
}

// executorEqual compares two optional executor ids, treating nil as
// unassigned.
func executorEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ExecutorRef returns a pointer to the given user id, for assigning
// Task.ExecutorID.
func ExecutorRef(userID int64) *int64 {
	return &userID
}
