package cleaning

import (
	"encoding/json"
	"testing"

	"staydash/internal/domain"
)

func TestMapStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"pending", domain.CleaningPending},
		{"scheduled", domain.CleaningPending},
		{"in_progress", domain.CleaningInProgress},
		{"STARTED", domain.CleaningInProgress},
		{"Completed", domain.CleaningCompleted},
		{"done", domain.CleaningCompleted},
		{"verified", domain.CleaningVerified},
		{"APPROVED", domain.CleaningVerified},
		{"unknown_value", domain.CleaningPending},
		{"", domain.CleaningPending},
	}
	for _, tc := range cases {
		if got := MapStatus(tc.in); got != tc.want {
			t.Errorf("MapStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeJob(t *testing.T) {
	var raw rawJob
	payload := `{
		"id": 55,
		"property_id": "p1",
		"reservation_id": 9,
		"date": "2026-02-10T00:00:00Z",
		"time": "10:30",
		"cleaner": {"name": "Maria"},
		"status": "Done",
		"completed_at": "2026-02-10T12:01:00Z",
		"checklist_completed": true,
		"photos_count": "6",
		"issues": ["broken lamp"]
	}`
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	j := normalizeJob(raw)

	if j.ID != "55" || j.PropertyID != "p1" || j.ReservationID != "9" {
		t.Errorf("ids: %+v", j)
	}
	if j.ScheduledDate != "2026-02-10" || j.ScheduledTime != "10:30" {
		t.Errorf("schedule: %q %q", j.ScheduledDate, j.ScheduledTime)
	}
	if j.CleanerName != "Maria" {
		t.Errorf("cleaner: %q", j.CleanerName)
	}
	if j.Status != domain.CleaningCompleted {
		t.Errorf("status: %q", j.Status)
	}
	if !j.ChecklistDone || j.PhotoCount != 6 || len(j.Issues) != 1 {
		t.Errorf("inspection fields: %+v", j)
	}
}
