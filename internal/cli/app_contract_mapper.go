package cli

import (
	"github.com/alexanderramin/staircase/internal/app"
	"github.com/alexanderramin/staircase/internal/contract"
	"github.com/alexanderramin/staircase/internal/domain"
)

func mapSnapshotToContract(s *app.ProgressionSnapshot) *contract.Snapshot {
	if s == nil {
		return nil
	}

	out := &contract.Snapshot{
		UserID:           s.UserID,
		ClosureCompleted: s.ClosureCompleted,
		ActiveStage: contract.ActiveStage{
			StageID:   s.ActiveStage.StageID,
			Kind:      s.ActiveStage.Kind,
			Title:     s.ActiveStage.Title,
			Unlocked:  s.ActiveStage.Unlocked,
			Completed: s.ActiveStage.Completed,
		},
		ActiveDay: contract.ActiveDay{
			StageID:       s.ActiveDay.StageID,
			StageKind:     s.ActiveDay.StageKind,
			DayID:         s.ActiveDay.DayID,
			DayNumber:     s.ActiveDay.DayNumber,
			Title:         s.ActiveDay.Title,
			Status:        s.ActiveDay.Status,
			CompletionPct: s.ActiveDay.CompletionPct,
			StartedAt:     s.ActiveDay.StartedAt,
		},
	}

	out.Stages = make([]contract.Stage, 0, len(s.Stages))
	for _, st := range s.Stages {
		out.Stages = append(out.Stages, contract.Stage{
			StageID:      st.StageID,
			Kind:         st.Kind,
			Title:        st.Title,
			SortOrder:    st.SortOrder,
			Unlocked:     st.Unlocked,
			Completed:    st.Completed,
			CanUnlockNow: st.CanUnlockNow,
			UnlockedAt:   st.UnlockedAt,
		})
	}
	return out
}

func mapClosureStatusToContract(c *app.ClosureStatus) *contract.ClosureStatus {
	if c == nil {
		return nil
	}
	return &contract.ClosureStatus{
		UserID:              c.UserID,
		ActionsDone:         c.ActionsDone,
		ActionsTotal:        c.ActionsTotal,
		Signed:              c.Signed,
		SafetyCheck:         c.SafetyCheck,
		Completed:           c.Completed,
		NextStageUnlockedAt: c.NextStageUnlockedAt,
	}
}

func mapDayProgressToContract(p *domain.DayProgress) *contract.DayProgress {
	if p == nil {
		return nil
	}
	return &contract.DayProgress{
		UserID:         p.UserID,
		DayID:          p.DayID,
		Status:         p.Status,
		CompletionPct:  p.CompletionPct,
		StartedAt:      p.StartedAt,
		LastActivityAt: p.LastActivityAt,
	}
}
