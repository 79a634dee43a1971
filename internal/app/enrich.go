package app

import "staydash/internal/domain"

// Enrichment attaches the matching Property to records that reference
// one. The property list is fetched once per request by the caller, not
// per item. A record whose property is not in the synced set keeps an
// absent Properties field; callers treat that as a normal state.

func EnrichReservations(items []domain.Reservation, props []domain.Property) []domain.Reservation {
	byID := propertyIndex(props)
	for i := range items {
		if p, ok := byID[items[i].PropertyID]; ok {
			items[i].Properties = p
		}
	}
	return items
}

func EnrichCleaningJobs(items []domain.CleaningJob, props []domain.Property) []domain.CleaningJob {
	byID := propertyIndex(props)
	for i := range items {
		if p, ok := byID[items[i].PropertyID]; ok {
			items[i].Properties = p
		}
	}
	return items
}

// propertyIndex keeps the first property per id, matching the
// "first match wins" join rule.
func propertyIndex(props []domain.Property) map[string]*domain.Property {
	byID := make(map[string]*domain.Property, len(props))
	for i := range props {
		if _, ok := byID[props[i].ID]; !ok {
			byID[props[i].ID] = &props[i]
		}
	}
	return byID
}
