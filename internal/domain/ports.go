package domain

import "context"

// BookingService is the cached booking-platform adapter. List operations
// fail closed: an upstream failure propagates, because an empty list is
// indistinguishable from "no data" and would corrupt aggregation. Single
// lookups convert upstream failure to a nil result.
type BookingService interface {
	ListProperties(ctx context.Context) ([]Property, error)
	GetProperty(ctx context.Context, id string) (*Property, error)
	ListReservations(ctx context.Context, q ReservationQuery) ([]Reservation, error)
	GetReservation(ctx context.Context, id string) (*Reservation, error)
}

// CleaningService is the cached cleaning-platform adapter. It fails open
// everywhere: the upstream intermittently blocks automated clients, and
// cleaning data is supplementary, so failures degrade to empty/nil.
type CleaningService interface {
	ListJobs(ctx context.Context, q CleaningQuery) ([]CleaningJob, error)
	GetJob(ctx context.Context, id string) (*CleaningJob, error)
	UpdateJobStatus(ctx context.Context, id, status string) (*CleaningJob, error)
}

// TaskRepository is the gateway-owned task store.
type TaskRepository interface {
	List(ctx context.Context, f TaskFilter) ([]Task, error)
	Get(ctx context.Context, id string) (*Task, error)
	Create(ctx context.Context, in TaskInput) (*Task, error)
	Update(ctx context.Context, id string, patch TaskPatch) (*Task, error)
	Delete(ctx context.Context, id string) error
}

// Cache is a TTL key-value store. Get treats an expired entry exactly
// like an absent one. Last-write-wins; no stronger consistency.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
