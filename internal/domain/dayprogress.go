package domain

import (
	"fmt"
	"time"
)

// DayProgress is one user's progress on one catalog day. Rows are created on
// first activation and never deleted.
type DayProgress struct {
	UserID         string
	DayID          string
	Status         DayStatus
	CompletionPct  int
	StartedAt      *time.Time
	LastActivityAt time.Time
}

// IsTerminal reports whether the day is completed or failed.
func (p *DayProgress) IsTerminal() bool {
	return IsTerminalStatus(p.Status)
}

// IsTerminalStatus reports whether s is completed or failed.
func IsTerminalStatus(s DayStatus) bool {
	switch s {
	case DayCompleted, DayFailed:
		return true
	case DayActive, DayNotStarted:
		return false
	default:
		panic(fmt.Sprintf("unhandled day status %q", s))
	}
}

// TransitionToActive returns the row that results from activating dayID for
// userID. A nil prev creates a fresh row. StartedAt is only ever set once.
func TransitionToActive(prev *DayProgress, userID, dayID string, now time.Time) DayProgress {
	if prev == nil {
		started := now
		return DayProgress{
			UserID:         userID,
			DayID:          dayID,
			Status:         DayActive,
			CompletionPct:  0,
			StartedAt:      &started,
			LastActivityAt: now,
		}
	}
	next := *prev
	next.Status = DayActive
	next.LastActivityAt = now
	if next.StartedAt == nil {
		started := now
		next.StartedAt = &started
	}
	return next
}

// TransitionToFailed marks an in-progress day as abandoned.
func TransitionToFailed(prev DayProgress, now time.Time) DayProgress {
	next := prev
	next.Status = DayFailed
	next.LastActivityAt = now
	return next
}

// TransitionToCompleted records a finished day. A nil prev means the day was
// completed without ever being activated.
func TransitionToCompleted(prev *DayProgress, userID, dayID string, now time.Time) DayProgress {
	next := TransitionToActive(prev, userID, dayID, now)
	next.Status = DayCompleted
	next.CompletionPct = 100
	return next
}

// WithCompletion updates the completion percentage of a started, non-terminal day.
func WithCompletion(prev *DayProgress, pct int, now time.Time) (DayProgress, error) {
	if prev == nil {
		return DayProgress{}, fmt.Errorf("day has not been started")
	}
	if pct < 0 || pct > 100 {
		return DayProgress{}, fmt.Errorf("completion %d out of range 0-100", pct)
	}
	if prev.IsTerminal() {
		return DayProgress{}, fmt.Errorf("day %s is already %s", prev.DayID, prev.Status)
	}
	next := *prev
	next.CompletionPct = pct
	next.LastActivityAt = now
	return next, nil
}
