// Package upstream holds the HTTP plumbing shared by both external API
// adapters: client-side rate limiting, retry with backoff on transient
// statuses, and typed status errors.
package upstream

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"staydash/internal/adapters/observability"
	"staydash/internal/domain"
)

type Client struct {
	service string
	base    string
	key     string
	hc      *http.Client
	rl      *rate.Limiter
}

func New(service, base, key string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		service: service,
		base:    strings.TrimRight(base, "/"),
		key:     key,
		hc:      &http.Client{Timeout: 20 * time.Second},
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// GetJSON fetches base+path and decodes the JSON body into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

// PatchJSON sends body as JSON. Writes are never retried.
func (c *Client) PatchJSON(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, retry bool) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	start := time.Now()
	endpoint := endpointLabel(path)

	attempts := 1
	if retry {
		attempts = 4
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
		if err != nil {
			return err
		}
		if c.key != "" {
			req.Header.Set("X-API-Key", c.key)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("User-Agent", "staydash/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = &domain.UpstreamError{Service: c.service, Err: err}
			if i < attempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			observability.ObserveExternal(c.service, endpoint, 0, time.Since(start))
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			observability.ObserveExternal(c.service, endpoint, resp.StatusCode, time.Since(start))
			return err

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			observability.ObserveExternal(c.service, endpoint, resp.StatusCode, time.Since(start))
			return nil

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = &domain.UpstreamError{Service: c.service, Status: resp.StatusCode}
			if retry && i < attempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal(c.service, endpoint, resp.StatusCode, time.Since(start))
			return lastErr

		default:
			// 404, 401, 403 and other non-transient codes: no retry.
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			observability.ObserveExternal(c.service, endpoint, resp.StatusCode, time.Since(start))
			return &domain.UpstreamError{Service: c.service, Status: resp.StatusCode}
		}
	}

	return lastErr
}

// endpointLabel strips the query string so metric cardinality stays
// bounded by path shape, not by filter values.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up
// to +50% jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
