package progression

import (
	"fmt"

	"github.com/alexanderramin/staircase/internal/domain"
)

// EvaluateClosure reports whether the closure track is satisfied: every
// required action is done, the agreement is signed, and the latest safety
// check passed. An empty action set is never complete. progress is keyed by
// action ID; a missing row counts as not done, as does a nil record.
func EvaluateClosure(
	actions []*domain.ClosureAction,
	progress map[string]*domain.ClosureActionProgress,
	record *domain.ClosureTrackRecord,
) bool {
	if len(actions) == 0 {
		return false
	}
	for _, a := range actions {
		p, ok := progress[a.ID]
		if !ok || !actionDone(p.Status) {
			return false
		}
	}
	return record.IsSigned() && record.SafetyPassed()
}

func actionDone(s domain.ActionStatus) bool {
	switch s {
	case domain.ActionDone:
		return true
	case domain.ActionPending:
		return false
	default:
		panic(fmt.Sprintf("unhandled closure action status %q", s))
	}
}
