package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	httpserver "staydash/internal/adapters/http_server"
	"staydash/internal/app"
	"staydash/internal/domain"
	"staydash/internal/storage/taskstore"
)

type stubBooking struct {
	props []domain.Property
	res   []domain.Reservation
	err   error
}

func (s *stubBooking) ListProperties(context.Context) ([]domain.Property, error) {
	return s.props, s.err
}

func (s *stubBooking) GetProperty(_ context.Context, id string) (*domain.Property, error) {
	if s.err != nil {
		return nil, nil
	}
	for i := range s.props {
		if s.props[i].ID == id {
			return &s.props[i], nil
		}
	}
	return nil, nil
}

func (s *stubBooking) ListReservations(context.Context, domain.ReservationQuery) ([]domain.Reservation, error) {
	return s.res, s.err
}

func (s *stubBooking) GetReservation(_ context.Context, id string) (*domain.Reservation, error) {
	for i := range s.res {
		if s.res[i].ID == id {
			r := s.res[i]
			return &r, nil
		}
	}
	return nil, nil
}

type stubCleaning struct {
	jobs    []domain.CleaningJob
	updated *domain.CleaningJob
}

func (s *stubCleaning) ListJobs(context.Context, domain.CleaningQuery) ([]domain.CleaningJob, error) {
	return s.jobs, nil
}

func (s *stubCleaning) GetJob(_ context.Context, id string) (*domain.CleaningJob, error) {
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			return &s.jobs[i], nil
		}
	}
	return nil, nil
}

func (s *stubCleaning) UpdateJobStatus(_ context.Context, id, status string) (*domain.CleaningJob, error) {
	status = strings.ToLower(status)
	if !domain.ValidCleaningStatus(status) {
		return nil, domain.Validationf("invalid status %q", status)
	}
	if s.updated == nil {
		return nil, nil
	}
	j := *s.updated
	j.ID = id
	j.Status = status
	return &j, nil
}

const testKey = "test-secret"

func newTestServer(t *testing.T, booking *stubBooking, cleaning *stubCleaning) *httptest.Server {
	t.Helper()
	mr := miniredis.RunT(t)
	tasks := taskstore.New(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Booking:  booking,
		Cleaning: cleaning,
		Tasks:    tasks,
		Dash:     app.NewDashboard(booking, cleaning, tasks),
	}, testKey)

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestAuth(t *testing.T) {
	ts := newTestServer(t, &stubBooking{}, &stubCleaning{})

	if resp := do(t, http.MethodGet, ts.URL+"/api/properties", "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/api/properties", "wrong-secret", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/api/properties", testKey, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/api/health", "", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("health must be open: status = %d, want 200", resp.StatusCode)
	}
}

func TestListEnvelope(t *testing.T) {
	booking := &stubBooking{props: []domain.Property{
		{ID: "p1", Name: "Loft"},
		{ID: "p2", Name: "Flat"},
	}}
	ts := newTestServer(t, booking, &stubCleaning{})

	resp := do(t, http.MethodGet, ts.URL+"/api/properties", testKey, nil)
	var out struct {
		Data  []domain.Property `json:"data"`
		Count int               `json:"count"`
	}
	decode(t, resp, &out)
	if out.Count != 2 || len(out.Data) != 2 {
		t.Errorf("envelope = {count:%d data:%d}, want 2/2", out.Count, len(out.Data))
	}
}

func TestListEnvelope_EmptyIsArray(t *testing.T) {
	ts := newTestServer(t, &stubBooking{}, &stubCleaning{})

	resp := do(t, http.MethodGet, ts.URL+"/api/cleaning", testKey, nil)
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(raw, []byte(`"data":[]`)) {
		t.Errorf("empty list must encode as [], got %s", raw)
	}
}

func TestGetProperty_NotFound(t *testing.T) {
	ts := newTestServer(t, &stubBooking{}, &stubCleaning{})

	resp := do(t, http.MethodGet, ts.URL+"/api/properties/nope", testKey, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	var out struct {
		Error string `json:"error"`
	}
	decode(t, resp, &out)
	if out.Error == "" {
		t.Error("error envelope missing")
	}
}

func TestListReservations_Enriched(t *testing.T) {
	booking := &stubBooking{
		props: []domain.Property{{ID: "p1", Name: "Loft"}},
		res:   []domain.Reservation{{ID: "r1", PropertyID: "p1"}},
	}
	ts := newTestServer(t, booking, &stubCleaning{})

	resp := do(t, http.MethodGet, ts.URL+"/api/reservations", testKey, nil)
	var out struct {
		Data []domain.Reservation `json:"data"`
	}
	decode(t, resp, &out)
	if len(out.Data) != 1 || out.Data[0].Properties == nil || out.Data[0].Properties.Name != "Loft" {
		t.Errorf("expected enriched reservation, got %+v", out.Data)
	}
}

func TestPatchCleaningStatus(t *testing.T) {
	cleaning := &stubCleaning{updated: &domain.CleaningJob{PropertyID: "p1"}}
	ts := newTestServer(t, &stubBooking{}, cleaning)

	resp := do(t, http.MethodPatch, ts.URL+"/api/cleaning/j1/status", testKey, map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing status: %d, want 400", resp.StatusCode)
	}

	resp = do(t, http.MethodPatch, ts.URL+"/api/cleaning/j1/status", testKey, map[string]string{"status": "nonsense"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid status: %d, want 400", resp.StatusCode)
	}

	resp = do(t, http.MethodPatch, ts.URL+"/api/cleaning/j1/status", testKey, map[string]string{"status": "completed"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid status: %d, want 200", resp.StatusCode)
	}
	var out struct {
		Data domain.CleaningJob `json:"data"`
	}
	decode(t, resp, &out)
	if out.Data.Status != domain.CleaningCompleted {
		t.Errorf("status = %q, want completed", out.Data.Status)
	}
}

func TestPatchCleaningStatus_UpstreamDown(t *testing.T) {
	// updated == nil models the fail-open adapter returning (nil, nil).
	ts := newTestServer(t, &stubBooking{}, &stubCleaning{})

	resp := do(t, http.MethodPatch, ts.URL+"/api/cleaning/j1/status", testKey, map[string]string{"status": "completed"})
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestTaskLifecycle(t *testing.T) {
	ts := newTestServer(t, &stubBooking{}, &stubCleaning{})

	resp := do(t, http.MethodPost, ts.URL+"/api/tasks", testKey, map[string]string{"title": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty title: %d, want 400", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, ts.URL+"/api/tasks", testKey, map[string]string{
		"title":    "Replace smoke detector",
		"priority": "urgent",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d, want 201", resp.StatusCode)
	}
	var created struct {
		Data domain.Task `json:"data"`
	}
	decode(t, resp, &created)
	if created.Data.ID == "" || created.Data.CreatedBy != "api" {
		t.Fatalf("created = %+v", created.Data)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/tasks/"+created.Data.ID, testKey, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: %d, want 200", resp.StatusCode)
	}

	resp = do(t, http.MethodPatch, ts.URL+"/api/tasks/"+created.Data.ID, testKey, map[string]string{"status": "completed"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: %d, want 200", resp.StatusCode)
	}
	var patched struct {
		Data domain.Task `json:"data"`
	}
	decode(t, resp, &patched)
	if patched.Data.Status != domain.TaskCompleted || patched.Data.CompletedAt == nil {
		t.Errorf("patched = %+v", patched.Data)
	}

	resp = do(t, http.MethodDelete, ts.URL+"/api/tasks/"+created.Data.ID, testKey, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: %d, want 204", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/tasks/"+created.Data.ID, testKey, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete: %d, want 404", resp.StatusCode)
	}
}

func TestVitals(t *testing.T) {
	ts := newTestServer(t, &stubBooking{}, &stubCleaning{})

	resp := do(t, http.MethodPost, ts.URL+"/api/vitals", "", map[string]any{"name": "LCP", "value": 1830.5})
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("status = %d, want 202", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, ts.URL+"/api/vitals", "", map[string]any{"value": 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing name: %d, want 400", resp.StatusCode)
	}
}

func TestDashboardStatsEnvelope(t *testing.T) {
	booking := &stubBooking{props: []domain.Property{{ID: "p1"}}}
	ts := newTestServer(t, booking, &stubCleaning{})

	resp := do(t, http.MethodGet, ts.URL+"/api/dashboard/stats", testKey, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out struct {
		Data app.Stats `json:"data"`
	}
	decode(t, resp, &out)
	if out.Data.TotalProperties != 1 {
		t.Errorf("totalProperties = %d, want 1", out.Data.TotalProperties)
	}
}
