package cleaning

import (
	"strings"

	"staydash/internal/adapters/upstream"
	"staydash/internal/domain"
)

// statusSynonyms maps the upstream's status vocabulary onto the four
// canonical states. Matching is case-insensitive; anything unrecognized
// defaults to pending.
var statusSynonyms = map[string]string{
	"pending":     domain.CleaningPending,
	"scheduled":   domain.CleaningPending,
	"in_progress": domain.CleaningInProgress,
	"started":     domain.CleaningInProgress,
	"completed":   domain.CleaningCompleted,
	"done":        domain.CleaningCompleted,
	"verified":    domain.CleaningVerified,
	"approved":    domain.CleaningVerified,
}

// MapStatus normalizes an upstream status string to a canonical state.
func MapStatus(s string) string {
	if mapped, ok := statusSynonyms[strings.ToLower(strings.TrimSpace(s))]; ok {
		return mapped
	}
	return domain.CleaningPending
}

type rawCleaner struct {
	Name string `json:"name"`
}

type rawJob struct {
	ID                upstream.FlexString `json:"id"`
	PropertyID        upstream.FlexString `json:"property_id"`
	ReservationID     upstream.FlexString `json:"reservation_id"`
	NextReservationID upstream.FlexString `json:"next_reservation_id"`
	Date              string              `json:"date"`
	ScheduledDate     string              `json:"scheduled_date"`
	Time              string              `json:"time"`
	ScheduledTime     string              `json:"scheduled_time"`
	Deadline          string              `json:"deadline"`
	Cleaner           rawCleaner          `json:"cleaner"`
	CleanerName       string              `json:"cleaner_name"`
	Assignee          string              `json:"assignee"`
	Status            string              `json:"status"`
	StartedAt         string              `json:"started_at"`
	CompletedAt       string              `json:"completed_at"`
	VerifiedAt        string              `json:"verified_at"`
	ChecklistDone     bool                `json:"checklist_completed"`
	PhotoCount        upstream.FlexInt    `json:"photo_count"`
	PhotosCount       upstream.FlexInt    `json:"photos_count"`
	Issues            []string            `json:"issues"`
}

func normalizeJob(r rawJob) domain.CleaningJob {
	return domain.CleaningJob{
		ID:                r.ID.String(),
		PropertyID:        r.PropertyID.String(),
		ReservationID:     r.ReservationID.String(),
		NextReservationID: r.NextReservationID.String(),
		ScheduledDate:     isoDate(firstNonEmpty(r.ScheduledDate, r.Date)),
		ScheduledTime:     firstNonEmpty(r.ScheduledTime, r.Time),
		Deadline:          r.Deadline,
		CleanerName:       firstNonEmpty(r.Cleaner.Name, r.CleanerName, r.Assignee),
		Status:            MapStatus(r.Status),
		StartedAt:         r.StartedAt,
		CompletedAt:       r.CompletedAt,
		VerifiedAt:        r.VerifiedAt,
		ChecklistDone:     r.ChecklistDone,
		PhotoCount:        firstNonZero(int(r.PhotoCount), int(r.PhotosCount)),
		Issues:            r.Issues,
	}
}

func isoDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func firstNonZero(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
