// Package taskstore is the gateway's system of record for tasks: one
// Redis key per task entity plus a single index key holding the ordered
// list of all task ids. The entity and index writes are two sequential
// commands, not a transaction; a crash between them can leave a dangling
// index id or an orphaned entity. List repairs dangling ids by skipping
// them, so the window is self-healing on the read path.
package taskstore

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"staydash/internal/domain"
)

const indexKey = "task:index"

func taskKey(id string) string { return "task:" + id }

type Store struct {
	c   *redis.Client
	now func() time.Time
}

func New(c *redis.Client) *Store {
	return &Store{c: c, now: func() time.Time { return time.Now().UTC() }}
}

// NewAt fixes the clock; used by tests.
func NewAt(c *redis.Client, now func() time.Time) *Store {
	return &Store{c: c, now: now}
}

func (s *Store) Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.Validationf("title is required")
	}
	now := s.now()
	t := domain.Task{
		ID:            uuid.NewString(),
		PropertyID:    in.PropertyID,
		ReservationID: in.ReservationID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Category:      defaultStr(in.Category, "general"),
		Priority:      defaultStr(in.Priority, domain.PriorityMedium),
		Status:        defaultStr(in.Status, domain.TaskPending),
		Assignee:      in.Assignee,
		DueDate:       in.DueDate,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := validateEnums(t.Category, t.Priority, t.Status); err != nil {
		return nil, err
	}

	// Entity before index: a dangling index id is skipped on read,
	// an orphaned entity would be unreachable.
	if err := s.write(ctx, t); err != nil {
		return nil, err
	}
	ids, err := s.readIndex(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.writeIndex(ctx, append(ids, t.ID)); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Task, error) {
	b, err := s.c.Get(ctx, taskKey(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var t domain.Task
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update shallow-merges patch over the stored task. ID, CreatedAt and
// CreatedBy are never touched regardless of input. The first transition
// into completed stamps CompletedAt; it is never restamped.
func (s *Store) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	setIf(&t.PropertyID, patch.PropertyID)
	setIf(&t.ReservationID, patch.ReservationID)
	setIf(&t.Description, patch.Description)
	setIf(&t.Assignee, patch.Assignee)
	setIf(&t.DueDate, patch.DueDate)
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, domain.Validationf("title cannot be empty")
		}
		t.Title = strings.TrimSpace(*patch.Title)
	}
	setIf(&t.Category, patch.Category)
	setIf(&t.Priority, patch.Priority)

	if patch.Status != nil {
		next := *patch.Status
		if next == domain.TaskCompleted && t.Status != domain.TaskCompleted {
			now := s.now()
			t.CompletedAt = &now
		}
		t.Status = next
	}
	if err := validateEnums(t.Category, t.Priority, t.Status); err != nil {
		return nil, err
	}

	t.UpdatedAt = s.now()
	if err := s.write(ctx, *t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	// Index first, then entity: the mirror of Create's ordering.
	ids, err := s.readIndex(ctx)
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	if err := s.writeIndex(ctx, kept); err != nil {
		return err
	}
	return s.c.Del(ctx, taskKey(id)).Err()
}

func (s *Store) List(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	ids, err := s.readIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.Get(ctx, id)
		if err == domain.ErrNotFound {
			continue // dangling index entry
		}
		if err != nil {
			return nil, err
		}
		if !matches(*t, f) {
			continue
		}
		out = append(out, *t)
	}

	// Priority severity descending, newest first within a severity.
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := domain.PrioritySeverity[out[i].Priority], domain.PrioritySeverity[out[j].Priority]
		if si != sj {
			return si > sj
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func matches(t domain.Task, f domain.TaskFilter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.PropertyID != "" && t.PropertyID != f.PropertyID {
		return false
	}
	return true
}

func (s *Store) write(ctx context.Context, t domain.Task) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.c.Set(ctx, taskKey(t.ID), b, 0).Err()
}

func (s *Store) readIndex(ctx context.Context) ([]string, error) {
	b, err := s.c.Get(ctx, indexKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) writeIndex(ctx context.Context, ids []string) error {
	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.c.Set(ctx, indexKey, b, 0).Err()
}

func validateEnums(category, priority, status string) error {
	if !contains(domain.TaskCategories, category) {
		return domain.Validationf("invalid category %q", category)
	}
	if _, ok := domain.PrioritySeverity[priority]; !ok {
		return domain.Validationf("invalid priority %q", priority)
	}
	switch status {
	case domain.TaskPending, domain.TaskInProgress, domain.TaskCompleted:
	default:
		return domain.Validationf("invalid status %q", status)
	}
	return nil
}

func contains(vals []string, s string) bool {
	for _, v := range vals {
		if v == s {
			return true
		}
	}
	return false
}

func defaultStr(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
