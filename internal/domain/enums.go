package domain

import "fmt"

// StageKind is the closed set of stage kinds in the staircase catalog.
type StageKind string

const (
	StageClosure    StageKind = "closure"
	StageDetachment StageKind = "detachment"
	StageAcceptance StageKind = "acceptance"
	StageRebuilding StageKind = "rebuilding"
	StageRenewal    StageKind = "renewal"
)

// ValidStageKinds is the canonical set of accepted stage kind strings.
var ValidStageKinds = map[string]bool{
	"closure": true, "detachment": true, "acceptance": true,
	"rebuilding": true, "renewal": true,
}

// PostClosureKind is the stage kind gated directly by the closure track.
const PostClosureKind = StageDetachment

// DayStatus is the status of a persisted DayProgress row. A day without a
// row is not started; DayNotStarted exists only for computed views.
type DayStatus string

const (
	DayNotStarted DayStatus = "not_started"
	DayActive     DayStatus = "active"
	DayCompleted  DayStatus = "completed"
	DayFailed     DayStatus = "failed"
)

type ActionStatus string

const (
	ActionPending ActionStatus = "pending"
	ActionDone    ActionStatus = "done"
)

// SafetyCheckResult is the outcome of the most recent closure safety check.
// Only SafetySafe counts as passing.
type SafetyCheckResult string

const (
	SafetyNone   SafetyCheckResult = ""
	SafetySafe   SafetyCheckResult = "safe"
	SafetyUnsafe SafetyCheckResult = "unsafe"
)

// ValidSafetyResults is the set of results accepted from the safety check form.
var ValidSafetyResults = map[string]bool{
	"safe": true, "unsafe": true,
}

// ParseDayStatus converts a stored status string into a DayStatus.
func ParseDayStatus(s string) (DayStatus, error) {
	switch DayStatus(s) {
	case DayActive, DayCompleted, DayFailed:
		return DayStatus(s), nil
	default:
		return "", fmt.Errorf("unknown day status %q", s)
	}
}

// ParseStageKind converts a stored kind string into a StageKind.
func ParseStageKind(s string) (StageKind, error) {
	if !ValidStageKinds[s] {
		return "", fmt.Errorf("unknown stage kind %q", s)
	}
	return StageKind(s), nil
}

// ParseActionStatus converts a stored closure action status.
func ParseActionStatus(s string) (ActionStatus, error) {
	switch ActionStatus(s) {
	case ActionPending, ActionDone:
		return ActionStatus(s), nil
	default:
		return "", fmt.Errorf("unknown closure action status %q", s)
	}
}

// ParseSafetyCheckResult converts a stored safety check result. The empty
// string means no check has been recorded.
func ParseSafetyCheckResult(s string) (SafetyCheckResult, error) {
	if s != "" && !ValidSafetyResults[s] {
		return "", fmt.Errorf("unknown safety check result %q", s)
	}
	return SafetyCheckResult(s), nil
}
