package domain

// Canonical cleaning job states, a strict forward progression.
const (
	CleaningPending    = "pending"
	CleaningInProgress = "in_progress"
	CleaningCompleted  = "completed"
	CleaningVerified   = "verified"
)

// CleaningStatuses lists the canonical states in progression order.
var CleaningStatuses = []string{CleaningPending, CleaningInProgress, CleaningCompleted, CleaningVerified}

// ValidCleaningStatus reports whether s is one of the canonical states.
func ValidCleaningStatus(s string) bool {
	for _, v := range CleaningStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CleaningJob as normalized from the cleaning-operations upstream.
// Transition timestamps are RFC3339 strings as reported upstream.
type CleaningJob struct {
	ID                string    `json:"id"`
	PropertyID        string    `json:"property_id"`
	ReservationID     string    `json:"reservation_id,omitempty"`
	NextReservationID string    `json:"next_reservation_id,omitempty"`
	ScheduledDate     string    `json:"scheduled_date"`
	ScheduledTime     string    `json:"scheduled_time,omitempty"`
	Deadline          string    `json:"deadline,omitempty"`
	CleanerName       string    `json:"cleaner_name,omitempty"`
	Status            string    `json:"status"`
	StartedAt         string    `json:"started_at,omitempty"`
	CompletedAt       string    `json:"completed_at,omitempty"`
	VerifiedAt        string    `json:"verified_at,omitempty"`
	ChecklistDone     bool      `json:"checklist_completed"`
	PhotoCount        int       `json:"photo_count"`
	Issues            []string  `json:"issues,omitempty"`
	Properties        *Property `json:"properties,omitempty"`
}

type CleaningQuery struct {
	Date       string
	PropertyID string
	Status     string
}
