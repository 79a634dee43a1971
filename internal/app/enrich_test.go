package app_test

import (
	"testing"

	"staydash/internal/app"
	"staydash/internal/domain"
)

func TestEnrichCleaningJobs(t *testing.T) {
	props := []domain.Property{{ID: "p1", Name: "Loft"}, {ID: "p2", Name: "Flat"}}
	jobs := []domain.CleaningJob{
		{ID: "j1", PropertyID: "p1"},
		{ID: "j2", PropertyID: "p3"}, // outside the synced set
	}

	got := app.EnrichCleaningJobs(jobs, props)
	if got[0].Properties == nil || got[0].Properties.ID != "p1" {
		t.Fatalf("j1 not enriched: %+v", got[0].Properties)
	}
	if got[1].Properties != nil {
		t.Fatalf("unmatched reference must stay absent, got %+v", got[1].Properties)
	}
}

func TestEnrichReservations_FirstMatchWins(t *testing.T) {
	props := []domain.Property{
		{ID: "p1", Name: "First"},
		{ID: "p1", Name: "Duplicate"},
	}
	res := app.EnrichReservations([]domain.Reservation{{ID: "r1", PropertyID: "p1"}}, props)
	if res[0].Properties == nil || res[0].Properties.Name != "First" {
		t.Fatalf("expected first match, got %+v", res[0].Properties)
	}
}
