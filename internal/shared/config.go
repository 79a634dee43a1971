package shared

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	APIKey      string // bearer secret for the /api surface

	BookingBase  string
	BookingKey   string
	CleaningBase string
	CleaningKey  string

	RedisAddr string
	RedisDB   int
	RedisPass string

	PropertyTTL    int // seconds
	ReservationTTL int
	CleaningTTL    int

	FanoutBatch int // concurrent upstream calls per batch
	UpstreamRPS int
	Workers     int // warmup concurrency
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		APIKey:         env("API_KEY", ""),
		BookingBase:    env("BOOKING_BASE_URL", "https://api.bookingsync.example/v1"),
		BookingKey:     env("BOOKING_API_KEY", ""),
		CleaningBase:   env("CLEANING_BASE_URL", "https://api.cleanops.example/v1"),
		CleaningKey:    env("CLEANING_API_KEY", ""),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		PropertyTTL:    atoi("PROPERTY_TTL_SECONDS", 300),
		ReservationTTL: atoi("RESERVATION_TTL_SECONDS", 120),
		CleaningTTL:    atoi("CLEANING_TTL_SECONDS", 60),
		FanoutBatch:    atoi("FANOUT_BATCH", 10),
		UpstreamRPS:    atoi("UPSTREAM_RPS", 5),
		Workers:        atoi("WARMUP_WORKERS", 8),
	}
	if c.APIKey == "" {
		log.Warn().Msg("API_KEY is empty; all authenticated routes will reject")
	}
	if c.BookingKey == "" {
		log.Warn().Msg("BOOKING_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
