package progression

import (
	"fmt"

	"github.com/alexanderramin/staircase/internal/domain"
)

// PickActiveDay selects the single day of a stage to present as in progress.
// A day already marked active wins. Otherwise the first day in order that is
// not started or not terminal is chosen. Several active days, or no day left
// to work on, are INVALID_ACTIVE_DAY_COUNT. The returned progress is nil for a
// day that has never been started.
func PickActiveDay(days []*domain.Day, progress map[string]*domain.DayProgress) (*domain.Day, *domain.DayProgress, error) {
	var (
		activeDay      *domain.Day
		activeProgress *domain.DayProgress
		activeCount    int
		candidate      *domain.Day
	)

	for _, d := range days {
		p, ok := progress[d.ID]
		if !ok {
			if candidate == nil {
				candidate = d
			}
			continue
		}
		switch p.Status {
		case domain.DayActive:
			activeCount++
			activeDay, activeProgress = d, p
		case domain.DayCompleted, domain.DayFailed:
		case domain.DayNotStarted:
			if candidate == nil {
				candidate = d
			}
		default:
			panic(fmt.Sprintf("unhandled day status %q", p.Status))
		}
	}

	switch {
	case activeCount == 1:
		return activeDay, activeProgress, nil
	case activeCount > 1:
		return nil, nil, Errorf(CodeInvalidActiveDayCount, "%d days are active in one stage", activeCount)
	case candidate != nil:
		return candidate, progress[candidate.ID], nil
	default:
		return nil, nil, Errorf(CodeInvalidActiveDayCount, "no day left to activate in stage")
	}
}
