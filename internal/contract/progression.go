// Package contract defines the JSON wire shapes the CLI prints with --json.
package contract

import (
	"time"

	"github.com/alexanderramin/staircase/internal/domain"
)

// Snapshot is the wire form of a user's computed position in the program.
type Snapshot struct {
	UserID           string      `json:"user_id"`
	ClosureCompleted bool        `json:"closure_completed"`
	ActiveStage      ActiveStage `json:"active_stage"`
	ActiveDay        ActiveDay   `json:"active_day"`
	Stages           []Stage     `json:"stages"`
}

type ActiveStage struct {
	StageID   string           `json:"stage_id"`
	Kind      domain.StageKind `json:"kind"`
	Title     string           `json:"title"`
	Unlocked  bool             `json:"unlocked"`
	Completed bool             `json:"completed"`
}

type ActiveDay struct {
	StageID       string           `json:"stage_id"`
	StageKind     domain.StageKind `json:"stage_kind"`
	DayID         string           `json:"day_id"`
	DayNumber     int              `json:"day_number"`
	Title         string           `json:"title"`
	Status        domain.DayStatus `json:"status"`
	CompletionPct int              `json:"completion_pct"`
	StartedAt     *time.Time       `json:"started_at,omitempty"`
}

type Stage struct {
	StageID      string           `json:"stage_id"`
	Kind         domain.StageKind `json:"kind"`
	Title        string           `json:"title"`
	SortOrder    int              `json:"sort_order"`
	Unlocked     bool             `json:"unlocked"`
	Completed    bool             `json:"completed"`
	CanUnlockNow bool             `json:"can_unlock_now"`
	UnlockedAt   *time.Time       `json:"unlocked_at,omitempty"`
}

type ClosureStatus struct {
	UserID              string                   `json:"user_id"`
	ActionsDone         int                      `json:"actions_done"`
	ActionsTotal        int                      `json:"actions_total"`
	Signed              bool                     `json:"signed"`
	SafetyCheck         domain.SafetyCheckResult `json:"safety_check,omitempty"`
	Completed           bool                     `json:"completed"`
	NextStageUnlockedAt *time.Time               `json:"next_stage_unlocked_at,omitempty"`
}

// Error is printed in place of a result when a --json command fails. Code is
// empty for failures that carry no progression code.
type Error struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type DayProgress struct {
	UserID         string           `json:"user_id"`
	DayID          string           `json:"day_id"`
	Status         domain.DayStatus `json:"status"`
	CompletionPct  int              `json:"completion_pct"`
	StartedAt      *time.Time       `json:"started_at,omitempty"`
	LastActivityAt time.Time        `json:"last_activity_at"`
}
