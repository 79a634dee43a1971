package main

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"staydash/internal/adapters/booking"
	"staydash/internal/adapters/cleaning"
	server "staydash/internal/adapters/http_server"
	"staydash/internal/adapters/observability"
	redisad "staydash/internal/adapters/redis"
	"staydash/internal/app"
	"staydash/internal/shared"
	"staydash/internal/storage/taskstore"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve(cfg.MetricsAddr)

	// one redis client shared by the cache and the task store
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB})
	cache := redisad.NewFromClient(rdb)
	tasks := taskstore.New(rdb)

	bookingSvc := booking.NewService(
		booking.NewClient(cfg.BookingBase, cfg.BookingKey, cfg.UpstreamRPS),
		cache, cfg.PropertyTTL, cfg.ReservationTTL, cfg.FanoutBatch)
	cleaningSvc := cleaning.NewService(
		cleaning.NewClient(cfg.CleaningBase, cfg.CleaningKey, cfg.UpstreamRPS),
		cache, cfg.CleaningTTL)
	dash := app.NewDashboard(bookingSvc, cleaningSvc, tasks)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Booking:  bookingSvc,
		Cleaning: cleaningSvc,
		Tasks:    tasks,
		Dash:     dash,
	}, cfg.APIKey)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
