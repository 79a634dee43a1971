package app

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"staydash/internal/domain"
)

const dateLayout = "2006-01-02"

// Dashboard computes aggregate metrics from the union of both upstream
// adapters and the task store. Every public method is independently
// fault-tolerant: it catches its own upstream failures and returns the
// documented zero/empty default, so the dashboard always renders with
// whatever data is available.
type Dashboard struct {
	booking  domain.BookingService
	cleaning domain.CleaningService
	tasks    domain.TaskRepository

	// Now is the clock; tests pin it.
	Now func() time.Time
}

func NewDashboard(b domain.BookingService, c domain.CleaningService, t domain.TaskRepository) *Dashboard {
	return &Dashboard{booking: b, cleaning: c, tasks: t, Now: time.Now}
}

type Stats struct {
	ActiveReservations int     `json:"activeReservations"`
	PendingCleaning    int     `json:"pendingCleaning"`
	TaskIssues         int     `json:"taskIssues"`
	TotalProperties    int     `json:"totalProperties"`
	OccupancyRate      float64 `json:"occupancyRate"`
	TotalRevenue       float64 `json:"totalRevenue"`
}

type OccupancyPoint struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Payout  float64 `json:"payout"`
}

type SourceBreakdown struct {
	Name    string  `json:"name"`
	Value   int     `json:"value"`
	Revenue float64 `json:"revenue"`
}

type PropertyPerformance struct {
	Name     string  `json:"name"`
	Revenue  float64 `json:"revenue"`
	Bookings int     `json:"bookings"`
}

type PriorityBucket struct {
	Label       string `json:"label"`
	Count       int    `json:"count"`
	FilterParam string `json:"filterParam"`
}

type Activity struct {
	Type        string `json:"type"`
	Property    string `json:"property"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// fetchSources pulls properties, reservations, cleaning jobs and tasks
// concurrently. Each branch swallows its own failure (logged) and leaves
// the corresponding slice empty; metrics derived from a failed source
// come out zero-valued while the rest still compute.
func (d *Dashboard) fetchSources(ctx context.Context) (props []domain.Property, res []domain.Reservation, jobs []domain.CleaningJob, tasks []domain.Task) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := d.booking.ListProperties(gctx)
		if err != nil {
			log.Warn().Err(err).Msg("dashboard: property list unavailable")
			return nil
		}
		props = p
		return nil
	})
	g.Go(func() error {
		r, err := d.booking.ListReservations(gctx, domain.ReservationQuery{})
		if err != nil {
			log.Warn().Err(err).Msg("dashboard: reservation list unavailable")
			return nil
		}
		res = r
		return nil
	})
	g.Go(func() error {
		j, err := d.cleaning.ListJobs(gctx, domain.CleaningQuery{})
		if err != nil {
			log.Warn().Err(err).Msg("dashboard: cleaning list unavailable")
			return nil
		}
		jobs = j
		return nil
	})
	g.Go(func() error {
		t, err := d.tasks.List(gctx, domain.TaskFilter{})
		if err != nil {
			log.Warn().Err(err).Msg("dashboard: task list unavailable")
			return nil
		}
		tasks = t
		return nil
	})
	_ = g.Wait()
	return props, res, jobs, tasks
}

func (d *Dashboard) Stats(ctx context.Context) Stats {
	now := d.Now()
	today := now.Format(dateLayout)
	props, res, jobs, tasks := d.fetchSources(ctx)

	var out Stats
	out.TotalProperties = len(props)

	for _, r := range res {
		if r.Status == "cancelled" {
			continue
		}
		if r.CheckInDate <= today && today <= r.CheckOutDate {
			out.ActiveReservations++
		}
	}

	for _, j := range jobs {
		if j.Status == domain.CleaningPending || j.Status == domain.CleaningInProgress {
			out.PendingCleaning++
		}
	}

	for _, t := range tasks {
		if t.Status != domain.TaskCompleted &&
			(t.Priority == domain.PriorityHigh || t.Priority == domain.PriorityUrgent) {
			out.TaskIssues++
		}
	}

	// Rolling 30-day window ending today.
	out.OccupancyRate = occupancyRate(props, res, now, 30)
	from := now.AddDate(0, 0, -29).Format(dateLayout)
	for _, r := range res {
		if r.Status == "cancelled" {
			continue
		}
		if r.CheckInDate >= from && r.CheckInDate <= today {
			out.TotalRevenue += r.TotalPrice
		}
	}
	out.TotalRevenue = round2(out.TotalRevenue)
	return out
}

// UpcomingCheckIns returns non-cancelled reservations checking in within
// the next seven days, soonest first, enriched with their property.
func (d *Dashboard) UpcomingCheckIns(ctx context.Context, limit int) []domain.Reservation {
	if limit <= 0 {
		limit = 50
	}
	now := d.Now()
	today := now.Format(dateLayout)
	horizon := now.AddDate(0, 0, 7).Format(dateLayout)

	props, res, _, _ := d.fetchSources(ctx)
	out := make([]domain.Reservation, 0, limit)
	for _, r := range res {
		if r.Status == "cancelled" {
			continue
		}
		if r.CheckInDate >= today && r.CheckInDate <= horizon {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckInDate < out[j].CheckInDate })
	if len(out) > limit {
		out = out[:limit]
	}
	return EnrichReservations(out, props)
}

func (d *Dashboard) OccupancyTrend(ctx context.Context, days int) []OccupancyPoint {
	if days <= 0 {
		days = 30
	}
	now := d.Now()
	props, res, _, _ := d.fetchSources(ctx)

	points := make([]OccupancyPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dateLayout)
		rate := 0.0
		if len(props) > 0 {
			rate = round2(float64(occupiedOn(res, day)) / float64(len(props)) * 100)
		}
		points = append(points, OccupancyPoint{Date: day, Rate: rate})
	}
	return points
}

func (d *Dashboard) RevenueTrend(ctx context.Context, days int) []RevenuePoint {
	if days <= 0 {
		days = 30
	}
	now := d.Now()
	_, res, _, _ := d.fetchSources(ctx)

	revenue := map[string]float64{}
	payout := map[string]float64{}
	for _, r := range res {
		if r.Status == "cancelled" {
			continue
		}
		revenue[r.CheckInDate] += r.TotalPrice
		payout[r.CheckInDate] += r.PayoutAmount
	}

	points := make([]RevenuePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dateLayout)
		points = append(points, RevenuePoint{
			Date:    day,
			Revenue: round2(revenue[day]),
			Payout:  round2(payout[day]),
		})
	}
	return points
}

func (d *Dashboard) BookingSources(ctx context.Context) []SourceBreakdown {
	_, res, _, _ := d.fetchSources(ctx)

	counts := map[string]int{}
	revenue := map[string]float64{}
	for _, r := range res {
		if r.Status == "cancelled" {
			continue
		}
		name := r.Platform
		if name == "" {
			name = "direct"
		}
		counts[name]++
		revenue[name] += r.TotalPrice
	}

	out := make([]SourceBreakdown, 0, len(counts))
	for name, n := range counts {
		out = append(out, SourceBreakdown{Name: name, Value: n, Revenue: round2(revenue[name])})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (d *Dashboard) PropertyPerformance(ctx context.Context, days, limit int) []PropertyPerformance {
	if days <= 0 {
		days = 30
	}
	if limit <= 0 {
		limit = 10
	}
	now := d.Now()
	today := now.Format(dateLayout)
	from := now.AddDate(0, 0, -(days - 1)).Format(dateLayout)

	props, res, _, _ := d.fetchSources(ctx)
	names := map[string]string{}
	for _, p := range props {
		names[p.ID] = p.Name
	}

	type agg struct {
		revenue  float64
		bookings int
	}
	byProp := map[string]*agg{}
	for _, r := range res {
		if r.Status == "cancelled" || r.CheckInDate < from || r.CheckInDate > today {
			continue
		}
		a := byProp[r.PropertyID]
		if a == nil {
			a = &agg{}
			byProp[r.PropertyID] = a
		}
		a.revenue += r.TotalPrice
		a.bookings++
	}

	out := make([]PropertyPerformance, 0, len(byProp))
	for id, a := range byProp {
		name := names[id]
		if name == "" {
			name = id
		}
		out = append(out, PropertyPerformance{Name: name, Revenue: round2(a.revenue), Bookings: a.bookings})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// TaskPriorityBreakdown always emits the four fixed buckets, counting
// only non-completed tasks.
func (d *Dashboard) TaskPriorityBreakdown(ctx context.Context) []PriorityBucket {
	buckets := []PriorityBucket{
		{Label: "Urgent", FilterParam: domain.PriorityUrgent},
		{Label: "Important", FilterParam: domain.PriorityHigh},
		{Label: "Medium", FilterParam: domain.PriorityMedium},
		{Label: "Low", FilterParam: domain.PriorityLow},
	}
	tasks, err := d.tasks.List(ctx, domain.TaskFilter{})
	if err != nil {
		log.Warn().Err(err).Msg("dashboard: task breakdown unavailable")
		return buckets
	}
	for _, t := range tasks {
		if t.Status == domain.TaskCompleted {
			continue
		}
		for i := range buckets {
			if buckets[i].FilterParam == t.Priority {
				buckets[i].Count++
			}
		}
	}
	return buckets
}

// RecentActivity merges booking, check-in/out and cleaning-completion
// events into one feed, newest first.
func (d *Dashboard) RecentActivity(ctx context.Context, limit int) []Activity {
	if limit <= 0 {
		limit = 15
	}
	now := d.Now()
	props, res, jobs, _ := d.fetchSources(ctx)
	names := map[string]string{}
	for _, p := range props {
		names[p.ID] = p.Name
	}
	propName := func(id string) string {
		if n := names[id]; n != "" {
			return n
		}
		return id
	}

	type event struct {
		at time.Time
		a  Activity
	}
	var events []event
	add := func(ts time.Time, typ, property, desc string) {
		if ts.IsZero() || ts.After(now) {
			return
		}
		events = append(events, event{at: ts, a: Activity{
			Type:        typ,
			Property:    property,
			Description: desc,
			Timestamp:   ts.UTC().Format(time.RFC3339),
		}})
	}

	for _, r := range res {
		if r.Status == "cancelled" {
			continue
		}
		name := propName(r.PropertyID)
		if ts := parseWhen(r.BookedAt); !ts.IsZero() {
			add(ts, "booking", name, fmt.Sprintf("New %s booking by %s", platformOrDirect(r.Platform), r.GuestName))
		}
		add(parseWhen(r.CheckInDate), "check_in", name, fmt.Sprintf("%s checked in", r.GuestName))
		add(parseWhen(r.CheckOutDate), "check_out", name, fmt.Sprintf("%s checked out", r.GuestName))
	}
	for _, j := range jobs {
		if ts := parseWhen(j.CompletedAt); !ts.IsZero() {
			add(ts, "cleaning_completed", propName(j.PropertyID), "Cleaning completed")
		}
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].at.After(events[j].at) })
	if len(events) > limit {
		events = events[:limit]
	}
	out := make([]Activity, 0, len(events))
	for _, e := range events {
		out = append(out, e.a)
	}
	return out
}

// TodayCleaning returns jobs scheduled for the current date, enriched.
func (d *Dashboard) TodayCleaning(ctx context.Context) []domain.CleaningJob {
	today := d.Now().Format(dateLayout)
	jobs, err := d.cleaning.ListJobs(ctx, domain.CleaningQuery{Date: today})
	if err != nil || jobs == nil {
		return []domain.CleaningJob{}
	}
	props, err := d.booking.ListProperties(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard: property list unavailable; skipping enrichment")
		return jobs
	}
	return EnrichCleaningJobs(jobs, props)
}

// occupiedOn counts distinct properties with a non-cancelled reservation
// spanning day (check-in inclusive, check-out exclusive: the guest
// leaves that morning).
func occupiedOn(res []domain.Reservation, day string) int {
	seen := map[string]struct{}{}
	for _, r := range res {
		if r.Status == "cancelled" {
			continue
		}
		if r.CheckInDate <= day && day < r.CheckOutDate {
			seen[r.PropertyID] = struct{}{}
		}
	}
	return len(seen)
}

// occupancyRate is occupied property-days over properties x window days,
// as a percentage.
func occupancyRate(props []domain.Property, res []domain.Reservation, now time.Time, days int) float64 {
	if len(props) == 0 || days <= 0 {
		return 0
	}
	occupied := 0
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -i).Format(dateLayout)
		occupied += occupiedOn(res, day)
	}
	return round2(float64(occupied) / float64(len(props)*days) * 100)
}

// parseWhen accepts an RFC3339 timestamp or a bare ISO date.
func parseWhen(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	return time.Time{}
}

func platformOrDirect(p string) string {
	if p == "" {
		return "direct"
	}
	return p
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
