package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/staircase/internal/db"
	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/google/uuid"
)

// NewTestUserID returns a fresh opaque user identifier.
func NewTestUserID() string {
	return "user-" + uuid.New().String()
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Stage options
type StageOption func(*domain.Stage)

func WithStageTitle(title string) StageOption {
	return func(s *domain.Stage) {
		s.Title = title
	}
}

func WithStageID(id string) StageOption {
	return func(s *domain.Stage) {
		s.ID = id
	}
}

func NewTestStage(kind domain.StageKind, sortOrder int, opts ...StageOption) *domain.Stage {
	s := &domain.Stage{
		ID:        uuid.New().String(),
		Kind:      kind,
		SortOrder: sortOrder,
		Title:     string(kind),
		CreatedAt: now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestDay(stageID string, number int) *domain.Day {
	return &domain.Day{
		ID:        uuid.New().String(),
		StageID:   stageID,
		Number:    number,
		Title:     fmt.Sprintf("Day %d", number),
		CreatedAt: now(),
	}
}

func NewTestClosureAction(title string, sortOrder int) *domain.ClosureAction {
	return &domain.ClosureAction{
		ID:        uuid.New().String(),
		Title:     title,
		SortOrder: sortOrder,
		CreatedAt: now(),
	}
}

// DayProgress options
type DayProgressOption func(*domain.DayProgress)

func WithCompletionPct(pct int) DayProgressOption {
	return func(p *domain.DayProgress) {
		p.CompletionPct = pct
	}
}

func WithStartedAt(t time.Time) DayProgressOption {
	return func(p *domain.DayProgress) {
		p.StartedAt = &t
	}
}

func WithLastActivityAt(t time.Time) DayProgressOption {
	return func(p *domain.DayProgress) {
		p.LastActivityAt = t
	}
}

func NewTestDayProgress(userID, dayID string, status domain.DayStatus, opts ...DayProgressOption) *domain.DayProgress {
	ts := now().Add(-time.Hour)
	p := &domain.DayProgress{
		UserID:         userID,
		DayID:          dayID,
		Status:         status,
		StartedAt:      &ts,
		LastActivityAt: ts,
	}
	if status == domain.DayCompleted {
		p.CompletionPct = 100
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StageSpec describes one stage of a seeded catalog.
type StageSpec struct {
	Kind domain.StageKind
	Days int
}

// TestCatalog is a seeded catalog, with days keyed by stage ID.
type TestCatalog struct {
	Stages  []*domain.Stage
	Days    map[string][]*domain.Day
	Actions []*domain.ClosureAction
}

// Day returns day number n (1-based) of the stage at index stageIdx.
func (c *TestCatalog) Day(stageIdx, n int) *domain.Day {
	return c.Days[c.Stages[stageIdx].ID][n-1]
}

// BuildCatalog creates catalog entities in memory without persisting them.
// Stages get sort orders 1..n in the order given.
func BuildCatalog(actionCount int, specs ...StageSpec) *TestCatalog {
	c := &TestCatalog{Days: make(map[string][]*domain.Day)}
	for i, spec := range specs {
		stage := NewTestStage(spec.Kind, i+1)
		c.Stages = append(c.Stages, stage)
		for n := 1; n <= spec.Days; n++ {
			c.Days[stage.ID] = append(c.Days[stage.ID], NewTestDay(stage.ID, n))
		}
	}
	for i := 0; i < actionCount; i++ {
		c.Actions = append(c.Actions, NewTestClosureAction(fmt.Sprintf("Action %d", i+1), i+1))
	}
	return c
}

// SeedCatalog builds a catalog and writes it through conn.
func SeedCatalog(t *testing.T, conn db.DBTX, actionCount int, specs ...StageSpec) *TestCatalog {
	t.Helper()
	c := BuildCatalog(actionCount, specs...)
	ctx := context.Background()

	for _, s := range c.Stages {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO stages (id, kind, sort_order, title, created_at) VALUES (?, ?, ?, ?, ?)`,
			s.ID, string(s.Kind), s.SortOrder, s.Title, s.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			t.Fatalf("seeding stage: %v", err)
		}
		for _, d := range c.Days[s.ID] {
			if _, err := conn.ExecContext(ctx,
				`INSERT INTO days (id, stage_id, day_number, title, created_at) VALUES (?, ?, ?, ?, ?)`,
				d.ID, d.StageID, d.Number, d.Title, d.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
				t.Fatalf("seeding day: %v", err)
			}
		}
	}
	for _, a := range c.Actions {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO closure_actions (id, title, sort_order, created_at) VALUES (?, ?, ?, ?)`,
			a.ID, a.Title, a.SortOrder, a.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			t.Fatalf("seeding closure action: %v", err)
		}
	}
	return c
}
