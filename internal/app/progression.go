package app

import (
	"time"

	"github.com/alexanderramin/staircase/internal/domain"
)

// ProgressionSnapshot is the full computed position of one user in the
// program. It carries no last-activity timestamps, so two refreshes with no
// external change in between produce equal snapshots.
type ProgressionSnapshot struct {
	UserID           string
	ClosureCompleted bool
	ActiveStage      ActiveStageView
	ActiveDay        ActiveDayView
	Stages           []StageStateView
}

type ActiveStageView struct {
	StageID   string
	Kind      domain.StageKind
	Title     string
	Unlocked  bool
	Completed bool
}

// ActiveDayView is the single day presented as in progress. Status is
// DayNotStarted when no progress row exists yet.
type ActiveDayView struct {
	StageID       string
	StageKind     domain.StageKind
	DayID         string
	DayNumber     int
	Title         string
	Status        domain.DayStatus
	CompletionPct int
	StartedAt     *time.Time
}

type StageStateView struct {
	StageID      string
	Kind         domain.StageKind
	Title        string
	SortOrder    int
	Unlocked     bool
	Completed    bool
	CanUnlockNow bool
	UnlockedAt   *time.Time
}

// ClosureStatus summarises the closure track for one user.
type ClosureStatus struct {
	UserID              string
	ActionsDone         int
	ActionsTotal        int
	Signed              bool
	SafetyCheck         domain.SafetyCheckResult
	Completed           bool
	NextStageUnlockedAt *time.Time
}

// CatalogImportResult holds the outcome of a catalog import.
type CatalogImportResult struct {
	StageCount  int
	DayCount    int
	ActionCount int
	Warnings    []string
}

// CatalogValidation lists problems found in a catalog file without writing it.
type CatalogValidation struct {
	Errors   []error
	Warnings []string
}

// Valid reports whether the catalog had no errors. Warnings do not count.
func (v *CatalogValidation) Valid() bool {
	return len(v.Errors) == 0
}
