package booking

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"staydash/internal/domain"
)

// API is the raw upstream surface the cached service wraps.
type API interface {
	Properties(ctx context.Context) ([]domain.Property, error)
	Property(ctx context.Context, id string) (domain.Property, error)
	Reservations(ctx context.Context, q domain.ReservationQuery) ([]domain.Reservation, error)
	Reservation(ctx context.Context, id string) (domain.Reservation, error)
}

// Service is the cached booking adapter. Reads are cache-aside with
// write-through: properties 300s, reservations 120s by default.
type Service struct {
	api     API
	cache   domain.Cache
	propTTL int
	resTTL  int
	batch   int
}

func NewService(api API, cache domain.Cache, propTTL, resTTL, batch int) *Service {
	if batch <= 0 {
		batch = 10
	}
	return &Service{api: api, cache: cache, propTTL: propTTL, resTTL: resTTL, batch: batch}
}

func (s *Service) ListProperties(ctx context.Context) ([]domain.Property, error) {
	const key = "booking:properties"
	var out []domain.Property
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.api.Properties(ctx)
	if err != nil {
		return nil, err // list failures are request-fatal
	}
	_ = s.cache.Set(ctx, key, out, s.propTTL)
	return out, nil
}

func (s *Service) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	key := "booking:property:" + id
	var p domain.Property
	if ok, _ := s.cache.Get(ctx, key, &p); ok {
		return &p, nil
	}
	p, err := s.api.Property(ctx, id)
	if err != nil {
		if domain.IsUpstream(err) {
			log.Debug().Str("id", id).Err(err).Msg("booking property lookup failed; treating as not found")
			return nil, nil
		}
		return nil, err
	}
	_ = s.cache.Set(ctx, key, p, s.propTTL)
	return &p, nil
}

func (s *Service) ListReservations(ctx context.Context, q domain.ReservationQuery) ([]domain.Reservation, error) {
	key := reservationsKey(q)
	var out []domain.Reservation
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	var err error
	if q.PropertyID != "" {
		out, err = s.api.Reservations(ctx, q)
		if err != nil {
			return nil, err
		}
	} else {
		out, err = s.fanOut(ctx, q)
		if err != nil {
			return nil, err
		}
	}
	_ = s.cache.Set(ctx, key, out, s.resTTL)
	return out, nil
}

// fanOut fetches reservations per property, at most batch concurrent
// calls, tolerating individual property failures: a failed branch
// contributes an empty list and the union of the rest is returned.
func (s *Service) fanOut(ctx context.Context, q domain.ReservationQuery) ([]domain.Reservation, error) {
	props, err := s.ListProperties(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]domain.Reservation, len(props))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batch)
	for i, p := range props {
		i, p := i, p
		g.Go(func() error {
			rs, rerr := s.api.Reservations(gctx, domain.ReservationQuery{
				From: q.From, To: q.To, PropertyID: p.ID,
			})
			if rerr != nil {
				log.Warn().Str("property_id", p.ID).Err(rerr).Msg("reservation fetch failed; skipping property")
				return nil
			}
			results[i] = rs
			return nil
		})
	}
	_ = g.Wait() // branches never return errors

	union := make([]domain.Reservation, 0, 64)
	for _, rs := range results {
		union = append(union, rs...)
	}
	return union, nil
}

func (s *Service) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	key := "booking:reservation:" + id
	var r domain.Reservation
	if ok, _ := s.cache.Get(ctx, key, &r); ok {
		return &r, nil
	}
	r, err := s.api.Reservation(ctx, id)
	if err != nil {
		if domain.IsUpstream(err) {
			log.Debug().Str("id", id).Err(err).Msg("booking reservation lookup failed; treating as not found")
			return nil, nil
		}
		return nil, err
	}
	_ = s.cache.Set(ctx, key, r, s.resTTL)
	return &r, nil
}

func reservationsKey(q domain.ReservationQuery) string {
	return fmt.Sprintf("booking:reservations:%s:%s:%s",
		orAll(q.PropertyID), orAll(q.From), orAll(q.To))
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}
