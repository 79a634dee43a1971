// Command warmup pre-populates the gateway cache after a deploy or a
// Redis flush: it lists all properties, then fetches each property's
// reservations and cleaning jobs under a bounded worker pool so the
// first dashboard load doesn't pay the full upstream fan-out.
package main

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"staydash/internal/adapters/booking"
	"staydash/internal/adapters/cleaning"
	"staydash/internal/adapters/observability"
	redisad "staydash/internal/adapters/redis"
	"staydash/internal/domain"
	"staydash/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Int("workers", cfg.Workers).Msg("warmup starting")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB})
	cache := redisad.NewFromClient(rdb)

	bookingSvc := booking.NewService(
		booking.NewClient(cfg.BookingBase, cfg.BookingKey, cfg.UpstreamRPS),
		cache, cfg.PropertyTTL, cfg.ReservationTTL, cfg.FanoutBatch)
	cleaningSvc := cleaning.NewService(
		cleaning.NewClient(cfg.CleaningBase, cfg.CleaningKey, cfg.UpstreamRPS),
		cache, cfg.CleaningTTL)

	props, err := bookingSvc.ListProperties(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("property list failed; nothing to warm")
	}
	log.Info().Int("properties", len(props)).Msg("warming per-property caches")

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, p := range props {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(p domain.Property) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := bookingSvc.ListReservations(ctx, domain.ReservationQuery{PropertyID: p.ID}); err != nil {
				log.Warn().Str("property_id", p.ID).Err(err).Msg("reservation warm failed")
			}
			if _, err := cleaningSvc.ListJobs(ctx, domain.CleaningQuery{PropertyID: p.ID}); err != nil {
				log.Warn().Str("property_id", p.ID).Err(err).Msg("cleaning warm failed")
			}
			log.Info().Str("property_id", p.ID).Msg("warmed")
		}(p)
	}

	wg.Wait()

	// warm the aggregate entries the dashboard hits first
	if _, err := bookingSvc.ListReservations(ctx, domain.ReservationQuery{}); err != nil {
		log.Warn().Err(err).Msg("reservation union warm failed")
	}
	if _, err := cleaningSvc.ListJobs(ctx, domain.CleaningQuery{}); err != nil {
		log.Warn().Err(err).Msg("cleaning list warm failed")
	}

	log.Info().Msg("warmup completed")
}
