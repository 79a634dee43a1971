package cleaning

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"staydash/internal/domain"
)

// API is the raw upstream surface the cached service wraps.
type API interface {
	Jobs(ctx context.Context, q domain.CleaningQuery) ([]domain.CleaningJob, error)
	Job(ctx context.Context, id string) (domain.CleaningJob, error)
	UpdateStatus(ctx context.Context, id, status string) (domain.CleaningJob, error)
}

// Service is the cached cleaning adapter. Only reads are cached (60s by
// default); writes bypass the cache and invalidate before they run.
type Service struct {
	api   API
	cache domain.Cache
	ttl   int
}

func NewService(api API, cache domain.Cache, ttl int) *Service {
	return &Service{api: api, cache: cache, ttl: ttl}
}

// ListJobs never propagates an error: any upstream failure is logged and
// converted to an empty list so a blocked provider cannot take down the
// dashboard.
func (s *Service) ListJobs(ctx context.Context, q domain.CleaningQuery) ([]domain.CleaningJob, error) {
	key := jobsKey(q)
	var out []domain.CleaningJob
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.api.Jobs(ctx, q)
	if err != nil {
		log.Warn().Err(err).Msg("cleaning job list failed; returning empty")
		return []domain.CleaningJob{}, nil
	}
	_ = s.cache.Set(ctx, key, out, s.ttl)
	return out, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (*domain.CleaningJob, error) {
	key := jobKey(id)
	var j domain.CleaningJob
	if ok, _ := s.cache.Get(ctx, key, &j); ok {
		return &j, nil
	}
	j, err := s.api.Job(ctx, id)
	if err != nil {
		log.Warn().Str("id", id).Err(err).Msg("cleaning job lookup failed; returning nil")
		return nil, nil
	}
	_ = s.cache.Set(ctx, key, j, s.ttl)
	return &j, nil
}

// UpdateJobStatus invalidates the single-job entry and the unfiltered
// list entry before issuing the upstream PATCH, so a read racing with
// this call cannot re-observe the pre-update value from cache once we
// return. Returns nil when the upstream write fails.
func (s *Service) UpdateJobStatus(ctx context.Context, id, status string) (*domain.CleaningJob, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !domain.ValidCleaningStatus(status) {
		return nil, domain.Validationf("invalid cleaning status %q", status)
	}

	if err := s.cache.Del(ctx, jobKey(id)); err != nil {
		log.Warn().Str("id", id).Err(err).Msg("cleaning job cache invalidation failed")
	}
	if err := s.cache.Del(ctx, jobsKey(domain.CleaningQuery{})); err != nil {
		log.Warn().Err(err).Msg("cleaning list cache invalidation failed")
	}

	j, err := s.api.UpdateStatus(ctx, id, status)
	if err != nil {
		log.Warn().Str("id", id).Str("status", status).Err(err).Msg("cleaning status update failed")
		return nil, nil
	}
	return &j, nil
}

func jobKey(id string) string { return "cleaning:job:" + id }

func jobsKey(q domain.CleaningQuery) string {
	return fmt.Sprintf("cleaning:jobs:%s:%s:%s", orAll(q.Date), orAll(q.PropertyID), orAll(q.Status))
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}
