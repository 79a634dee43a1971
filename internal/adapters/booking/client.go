// Package booking adapts the booking-platform upstream: raw HTTP access,
// normalization of its loosely-typed payloads, and a cached service
// front. Booking data is the critical half of the dashboard, so list
// failures here propagate instead of degrading.
package booking

import (
	"context"
	"net/url"

	"staydash/internal/adapters/upstream"
	"staydash/internal/domain"
)

type Client struct{ c *upstream.Client }

func NewClient(base, key string, rps int) *Client {
	return &Client{c: upstream.New("booking", base, key, rps)}
}

func (c *Client) Properties(ctx context.Context) ([]domain.Property, error) {
	var raw upstream.List[rawProperty]
	if err := c.c.GetJSON(ctx, "/properties", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Property, 0, len(raw.Items))
	for _, r := range raw.Items {
		out = append(out, normalizeProperty(r))
	}
	return out, nil
}

func (c *Client) Property(ctx context.Context, id string) (domain.Property, error) {
	var raw rawProperty
	if err := c.c.GetJSON(ctx, "/properties/"+url.PathEscape(id), &raw); err != nil {
		return domain.Property{}, err
	}
	return normalizeProperty(raw), nil
}

func (c *Client) Reservations(ctx context.Context, q domain.ReservationQuery) ([]domain.Reservation, error) {
	vals := url.Values{}
	if q.PropertyID != "" {
		vals.Set("property_id", q.PropertyID)
	}
	if q.From != "" {
		vals.Set("from", q.From)
	}
	if q.To != "" {
		vals.Set("to", q.To)
	}
	path := "/reservations"
	if len(vals) > 0 {
		path += "?" + vals.Encode()
	}
	var raw upstream.List[rawReservation]
	if err := c.c.GetJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Reservation, 0, len(raw.Items))
	for _, r := range raw.Items {
		out = append(out, normalizeReservation(r))
	}
	return out, nil
}

func (c *Client) Reservation(ctx context.Context, id string) (domain.Reservation, error) {
	var raw rawReservation
	if err := c.c.GetJSON(ctx, "/reservations/"+url.PathEscape(id), &raw); err != nil {
		return domain.Reservation{}, err
	}
	return normalizeReservation(raw), nil
}
