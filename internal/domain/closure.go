package domain

import (
	"fmt"
	"time"
)

// ClosureAction is one required action of the closure track.
type ClosureAction struct {
	ID        string
	Title     string
	SortOrder int
	CreatedAt time.Time
}

type ClosureActionProgress struct {
	UserID   string
	ActionID string
	Status   ActionStatus
	DoneAt   *time.Time
}

// ClosureTrackRecord holds the per-user agreement signature, the latest
// safety check outcome, and when the post-closure stage was unlocked.
type ClosureTrackRecord struct {
	UserID              string
	SignedAt            *time.Time
	SafetyCheck         SafetyCheckResult
	NextStageUnlockedAt *time.Time
	UpdatedAt           time.Time
}

// IsSigned reports whether the closure agreement has been signed.
func (r *ClosureTrackRecord) IsSigned() bool {
	return r != nil && r.SignedAt != nil
}

// SafetyPassed reports whether the latest safety check passed.
func (r *ClosureTrackRecord) SafetyPassed() bool {
	if r == nil {
		return false
	}
	switch r.SafetyCheck {
	case SafetySafe:
		return true
	case SafetyUnsafe, SafetyNone:
		return false
	default:
		panic(fmt.Sprintf("unhandled safety check result %q", r.SafetyCheck))
	}
}

// Sign stamps the agreement signature. Re-signing keeps the original time.
func (r *ClosureTrackRecord) Sign(now time.Time) {
	if r.SignedAt == nil {
		r.SignedAt = &now
	}
	r.UpdatedAt = now
}

// RecordSafetyCheck replaces the latest safety check outcome.
func (r *ClosureTrackRecord) RecordSafetyCheck(result SafetyCheckResult, now time.Time) error {
	if !ValidSafetyResults[string(result)] {
		return fmt.Errorf("invalid safety check result %q", result)
	}
	r.SafetyCheck = result
	r.UpdatedAt = now
	return nil
}

// MarkNextStageUnlocked stamps the unlock time once.
func (r *ClosureTrackRecord) MarkNextStageUnlocked(now time.Time) bool {
	if r.NextStageUnlockedAt != nil {
		return false
	}
	r.NextStageUnlockedAt = &now
	r.UpdatedAt = now
	return true
}

// MarkActionDone returns the progress row for a completed closure action.
func MarkActionDone(prev *ClosureActionProgress, userID, actionID string, now time.Time) ClosureActionProgress {
	if prev != nil && prev.Status == ActionDone {
		return *prev
	}
	return ClosureActionProgress{
		UserID:   userID,
		ActionID: actionID,
		Status:   ActionDone,
		DoneAt:   &now,
	}
}
