// Package cleaning adapts the cleaning-operations upstream. This
// provider intermittently blocks automated clients, so unlike the
// booking adapter every operation here fails open: reads degrade to
// empty results and writes to nil instead of surfacing errors.
package cleaning

import (
	"context"
	"net/url"

	"staydash/internal/adapters/upstream"
	"staydash/internal/domain"
)

type Client struct{ c *upstream.Client }

func NewClient(base, key string, rps int) *Client {
	return &Client{c: upstream.New("cleaning", base, key, rps)}
}

func (c *Client) Jobs(ctx context.Context, q domain.CleaningQuery) ([]domain.CleaningJob, error) {
	vals := url.Values{}
	if q.Date != "" {
		vals.Set("date", q.Date)
	}
	if q.PropertyID != "" {
		vals.Set("property_id", q.PropertyID)
	}
	if q.Status != "" {
		vals.Set("status", q.Status)
	}
	path := "/jobs"
	if len(vals) > 0 {
		path += "?" + vals.Encode()
	}
	var raw upstream.List[rawJob]
	if err := c.c.GetJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.CleaningJob, 0, len(raw.Items))
	for _, r := range raw.Items {
		out = append(out, normalizeJob(r))
	}
	return out, nil
}

func (c *Client) Job(ctx context.Context, id string) (domain.CleaningJob, error) {
	var raw rawJob
	if err := c.c.GetJSON(ctx, "/jobs/"+url.PathEscape(id), &raw); err != nil {
		return domain.CleaningJob{}, err
	}
	return normalizeJob(raw), nil
}

func (c *Client) UpdateStatus(ctx context.Context, id, status string) (domain.CleaningJob, error) {
	body := map[string]string{"status": status}
	var raw rawJob
	if err := c.c.PatchJSON(ctx, "/jobs/"+url.PathEscape(id)+"/status", body, &raw); err != nil {
		return domain.CleaningJob{}, err
	}
	return normalizeJob(raw), nil
}
