package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staydash/internal/adapters/observability"
	"staydash/internal/app"
	"staydash/internal/domain"
)

type Handlers struct {
	Booking  domain.BookingService
	Cleaning domain.CleaningService
	Tasks    domain.TaskRepository
	Dash     *app.Dashboard
}

// MountHandlers wires the /api surface. Health and vitals ingestion are
// unauthenticated; everything else requires the bearer secret.
func (s *Server) MountHandlers(h *Handlers, apiKey string) {
	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		r.Post("/vitals", h.postVitals)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(apiKey))

			r.Get("/properties", h.listProperties)
			r.Get("/properties/{id}", h.getProperty)
			r.Get("/reservations", h.listReservations)
			r.Get("/reservations/{id}", h.getReservation)
			r.Get("/cleaning", h.listCleaning)
			r.Get("/cleaning/{id}", h.getCleaningJob)
			r.Patch("/cleaning/{id}/status", h.patchCleaningStatus)

			r.Get("/tasks", h.listTasks)
			r.Post("/tasks", h.createTask)
			r.Get("/tasks/{id}", h.getTask)
			r.Patch("/tasks/{id}", h.patchTask)
			r.Delete("/tasks/{id}", h.deleteTask)

			r.Get("/dashboard/stats", h.dashStats)
			r.Get("/dashboard/upcoming", h.dashUpcoming)
			r.Get("/dashboard/occupancy-trends", h.dashOccupancy)
			r.Get("/dashboard/revenue-trends", h.dashRevenue)
			r.Get("/dashboard/booking-sources", h.dashSources)
			r.Get("/dashboard/property-performance", h.dashPerformance)
			r.Get("/dashboard/task-priority-breakdown", h.dashTaskBreakdown)
			r.Get("/dashboard/recent-activity", h.dashActivity)
			r.Get("/dashboard/today-cleaning", h.dashTodayCleaning)
		})
	})
}

// ---- response envelopes ----

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, map[string]any{"data": v})
}

func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": items, "count": len(items)})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func respondErr(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Reason)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case domain.IsUpstream(err):
		writeError(w, http.StatusBadGateway, "upstream unavailable")
	default:
		log.Error().Err(err).Msg("unhandled request error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func intQuery(r *http.Request, key, alt string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" && alt != "" {
		v = r.URL.Query().Get(alt)
	}
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// ---- properties & reservations ----

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.Booking.ListProperties(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeList(w, props)
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.Booking.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *Handlers) listReservations(w http.ResponseWriter, r *http.Request) {
	q := domain.ReservationQuery{
		PropertyID: r.URL.Query().Get("property_id"),
		From:       r.URL.Query().Get("from"),
		To:         r.URL.Query().Get("to"),
	}
	res, err := h.Booking.ListReservations(r.Context(), q)
	if err != nil {
		respondErr(w, err)
		return
	}
	if props, perr := h.Booking.ListProperties(r.Context()); perr == nil {
		res = app.EnrichReservations(res, props)
	} else {
		log.Warn().Err(perr).Msg("property list unavailable; serving reservations unenriched")
	}
	writeList(w, res)
}

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.Booking.GetReservation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	if res == nil {
		writeError(w, http.StatusNotFound, "reservation not found")
		return
	}
	if res.PropertyID != "" {
		if p, perr := h.Booking.GetProperty(r.Context(), res.PropertyID); perr == nil && p != nil {
			res.Properties = p
		}
	}
	writeData(w, http.StatusOK, res)
}

// ---- cleaning ----

func (h *Handlers) listCleaning(w http.ResponseWriter, r *http.Request) {
	q := domain.CleaningQuery{
		Date:       r.URL.Query().Get("date"),
		PropertyID: r.URL.Query().Get("property_id"),
		Status:     r.URL.Query().Get("status"),
	}
	jobs, err := h.Cleaning.ListJobs(r.Context(), q)
	if err != nil {
		respondErr(w, err)
		return
	}
	if props, perr := h.Booking.ListProperties(r.Context()); perr == nil {
		jobs = app.EnrichCleaningJobs(jobs, props)
	}
	writeList(w, jobs)
}

func (h *Handlers) getCleaningJob(w http.ResponseWriter, r *http.Request) {
	j, err := h.Cleaning.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	if j == nil {
		writeError(w, http.StatusNotFound, "cleaning job not found")
		return
	}
	writeData(w, http.StatusOK, j)
}

func (h *Handlers) patchCleaningStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}
	j, err := h.Cleaning.UpdateJobStatus(r.Context(), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		respondErr(w, err)
		return
	}
	if j == nil {
		writeError(w, http.StatusBadGateway, "cleaning upstream unavailable")
		return
	}
	writeData(w, http.StatusOK, j)
}

// ---- tasks ----

func (h *Handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	f := domain.TaskFilter{
		Status:     r.URL.Query().Get("status"),
		Priority:   r.URL.Query().Get("priority"),
		PropertyID: r.URL.Query().Get("property_id"),
	}
	tasks, err := h.Tasks.List(r.Context(), f)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeList(w, tasks)
}

func (h *Handlers) getTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeData(w, http.StatusOK, t)
}

func (h *Handlers) createTask(w http.ResponseWriter, r *http.Request) {
	var in domain.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in.CreatedBy = "api"
	t, err := h.Tasks.Create(r.Context(), in)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, t)
}

func (h *Handlers) patchTask(w http.ResponseWriter, r *http.Request) {
	var patch domain.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	t, err := h.Tasks.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeData(w, http.StatusOK, t)
}

func (h *Handlers) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Tasks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- dashboard ----

func (h *Handlers) dashStats(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.Dash.Stats(r.Context()))
}

func (h *Handlers) dashUpcoming(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.Dash.UpcomingCheckIns(r.Context(), intQuery(r, "limit", "", 50)))
}

func (h *Handlers) dashOccupancy(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.Dash.OccupancyTrend(r.Context(), intQuery(r, "days", "", 30)))
}

func (h *Handlers) dashRevenue(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.Dash.RevenueTrend(r.Context(), intQuery(r, "days", "", 30)))
}

func (h *Handlers) dashSources(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.Dash.BookingSources(r.Context()))
}

func (h *Handlers) dashPerformance(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.Dash.PropertyPerformance(r.Context(),
		intQuery(r, "days", "", 30), intQuery(r, "limit", "", 10)))
}

func (h *Handlers) dashTaskBreakdown(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.Dash.TaskPriorityBreakdown(r.Context()))
}

func (h *Handlers) dashActivity(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.Dash.RecentActivity(r.Context(), intQuery(r, "limit", "", 15)))
}

func (h *Handlers) dashTodayCleaning(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.Dash.TodayCleaning(r.Context()))
}

// ---- vitals ingestion ----

// postVitals accepts client-reported web vitals. The dashboard posts
// these before a session exists, so the route skips auth.
func (h *Handlers) postVitals(w http.ResponseWriter, r *http.Request) {
	var v struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil || v.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	observability.ObserveVital(v.Name, v.Value)
	log.Debug().Str("name", v.Name).Float64("value", v.Value).Msg("web vital")
	w.WriteHeader(http.StatusAccepted)
}
