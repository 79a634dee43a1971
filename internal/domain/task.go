package domain

import "time"

const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var TaskCategories = []string{"maintenance", "inspection", "inventory", "general"}

// PrioritySeverity ranks priorities for sorting; higher sorts first.
var PrioritySeverity = map[string]int{
	PriorityUrgent: 4,
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Task is the one entity the gateway owns outright. ID, CreatedBy and
// CreatedAt are immutable after creation; CompletedAt is stamped on the
// first transition into completed and never overwritten.
type Task struct {
	ID            string     `json:"id"`
	PropertyID    string     `json:"property_id,omitempty"`
	ReservationID string     `json:"reservation_id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	Assignee      string     `json:"assignee,omitempty"`
	DueDate       string     `json:"due_date,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedBy     string     `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TaskInput carries the client-supplied fields for creation. Zero-valued
// category/priority/status fall back to general/medium/pending.
type TaskInput struct {
	PropertyID    string `json:"property_id"`
	ReservationID string `json:"reservation_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	Status        string `json:"status"`
	Assignee      string `json:"assignee"`
	DueDate       string `json:"due_date"`
	CreatedBy     string `json:"-"`
}

// TaskPatch is a shallow merge: nil fields are left untouched.
type TaskPatch struct {
	PropertyID    *string `json:"property_id"`
	ReservationID *string `json:"reservation_id"`
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	Priority      *string `json:"priority"`
	Status        *string `json:"status"`
	Assignee      *string `json:"assignee"`
	DueDate       *string `json:"due_date"`
}

type TaskFilter struct {
	Status     string
	Priority   string
	PropertyID string
}
