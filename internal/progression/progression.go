// Package progression computes a user's position in the staircase program:
// which stages are unlocked, which stage is active, and which day of it to
// work on. Everything here is pure; persistence lives in the service layer.
package progression

import (
	"github.com/alexanderramin/staircase/internal/domain"
)

// UserState is everything the resolver needs to know about one user.
type UserState struct {
	DayProgress    map[string]*domain.DayProgress
	ActionProgress map[string]*domain.ClosureActionProgress
	Record         *domain.ClosureTrackRecord
}

// NewUserState indexes progress rows by day and action ID.
func NewUserState(
	days []*domain.DayProgress,
	actions []*domain.ClosureActionProgress,
	record *domain.ClosureTrackRecord,
) UserState {
	s := UserState{
		DayProgress:    make(map[string]*domain.DayProgress, len(days)),
		ActionProgress: make(map[string]*domain.ClosureActionProgress, len(actions)),
		Record:         record,
	}
	for _, p := range days {
		s.DayProgress[p.DayID] = p
	}
	for _, p := range actions {
		s.ActionProgress[p.ActionID] = p
	}
	return s
}

// Result is one full resolution pass.
type Result struct {
	ClosureCompleted bool
	Stages           []StageState
	ActiveStage      StageState
	ActiveDay        *domain.Day
	// ActiveProgress is nil when the active day has not been started.
	ActiveProgress *domain.DayProgress
}

// Resolve evaluates the closure track, resolves stage states, selects the
// active stage, and picks its active day. Any failure is fatal.
func Resolve(c *Catalog, s UserState) (*Result, error) {
	closureDone := EvaluateClosure(c.Actions, s.ActionProgress, s.Record)

	states, err := ResolveStages(c, s.DayProgress, closureDone, s.Record)
	if err != nil {
		return nil, err
	}
	active, err := ActiveStage(states)
	if err != nil {
		return nil, err
	}
	day, p, err := PickActiveDay(c.StageDays(active.StageID), s.DayProgress)
	if err != nil {
		return nil, err
	}
	return &Result{
		ClosureCompleted: closureDone,
		Stages:           states,
		ActiveStage:      active,
		ActiveDay:        day,
		ActiveProgress:   p,
	}, nil
}

// DayStatusOf returns the row's status, or DayNotStarted for a nil row.
func DayStatusOf(p *domain.DayProgress) domain.DayStatus {
	if p == nil {
		return domain.DayNotStarted
	}
	return p.Status
}
