package progression

import (
	"time"

	"github.com/alexanderramin/staircase/internal/domain"
)

// StageState is the computed lock state of one stage. It is derived on every
// read and never stored.
type StageState struct {
	StageID      string
	Kind         domain.StageKind
	SortOrder    int
	Title        string
	Unlocked     bool
	Completed    bool
	CanUnlockNow bool
	UnlockedAt   *time.Time
}

// ResolveStages walks the catalog in order and computes each stage's state.
// progress is the user's day progress keyed by day ID. The closure stage is
// always open and completes with the closure track. The post-closure stage
// opens with the closure track. Any other stage opens when its predecessor
// completes.
func ResolveStages(
	c *Catalog,
	progress map[string]*domain.DayProgress,
	closureCompleted bool,
	record *domain.ClosureTrackRecord,
) ([]StageState, error) {
	if len(c.Stages) == 0 {
		return nil, Errorf(CodeNoActiveStage, "catalog has no stages")
	}

	states := make([]StageState, 0, len(c.Stages))
	previousCompleted := true
	for _, s := range c.Stages {
		st := StageState{
			StageID:   s.ID,
			Kind:      s.Kind,
			SortOrder: s.SortOrder,
			Title:     s.Title,
		}
		days := c.Days[s.ID]

		switch s.Kind {
		case domain.StageClosure:
			st.Unlocked = true
			st.Completed = closureCompleted
		case domain.PostClosureKind:
			st.Unlocked = closureCompleted
			st.CanUnlockNow = closureCompleted
			if record != nil {
				st.UnlockedAt = record.NextStageUnlockedAt
			}
			st.Completed = allDaysTerminal(days, progress)
		case domain.StageAcceptance, domain.StageRebuilding, domain.StageRenewal:
			st.Unlocked = previousCompleted
			st.Completed = st.Unlocked && allDaysTerminal(days, progress)
		default:
			return nil, Errorf(CodeUnknownStageKind, "stage %s has unknown kind %q", s.ID, s.Kind)
		}

		states = append(states, st)
		previousCompleted = st.Completed
	}
	return states, nil
}

// allDaysTerminal reports whether the stage has days and every one of them
// has a completed or failed progress row.
func allDaysTerminal(days []*domain.Day, progress map[string]*domain.DayProgress) bool {
	if len(days) == 0 {
		return false
	}
	for _, d := range days {
		p, ok := progress[d.ID]
		if !ok || !p.IsTerminal() {
			return false
		}
	}
	return true
}

// ActiveStage returns the last stage in catalog order that is unlocked but
// not completed.
func ActiveStage(states []StageState) (StageState, error) {
	for i := len(states) - 1; i >= 0; i-- {
		if states[i].Unlocked && !states[i].Completed {
			return states[i], nil
		}
	}
	return StageState{}, Errorf(CodeNoActiveStage, "no unlocked stage is incomplete")
}
