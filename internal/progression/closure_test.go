package progression

import (
	"testing"

	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/alexanderramin/staircase/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateClosure_AllConditionsMet(t *testing.T) {
	actions := []*domain.ClosureAction{
		testutil.NewTestClosureAction("Write letter", 1),
		testutil.NewTestClosureAction("Return keys", 2),
	}
	assert.True(t, EvaluateClosure(actions, allActionsDone(actions), passingRecord()))
}

// Each sub-condition flipped on its own must flip the verdict.
func TestEvaluateClosure_EachConditionRequired(t *testing.T) {
	actions := []*domain.ClosureAction{
		testutil.NewTestClosureAction("Write letter", 1),
		testutil.NewTestClosureAction("Return keys", 2),
	}

	tests := []struct {
		name     string
		progress func() map[string]*domain.ClosureActionProgress
		record   func() *domain.ClosureTrackRecord
	}{
		{
			name: "one action missing",
			progress: func() map[string]*domain.ClosureActionProgress {
				m := allActionsDone(actions)
				delete(m, actions[1].ID)
				return m
			},
			record: passingRecord,
		},
		{
			name: "one action pending",
			progress: func() map[string]*domain.ClosureActionProgress {
				m := allActionsDone(actions)
				m[actions[0].ID].Status = domain.ActionPending
				m[actions[0].ID].DoneAt = nil
				return m
			},
			record: passingRecord,
		},
		{
			name:     "not signed",
			progress: func() map[string]*domain.ClosureActionProgress { return allActionsDone(actions) },
			record: func() *domain.ClosureTrackRecord {
				rec := passingRecord()
				rec.SignedAt = nil
				return rec
			},
		},
		{
			name:     "safety unsafe",
			progress: func() map[string]*domain.ClosureActionProgress { return allActionsDone(actions) },
			record: func() *domain.ClosureTrackRecord {
				rec := passingRecord()
				rec.SafetyCheck = domain.SafetyUnsafe
				return rec
			},
		},
		{
			name:     "safety never checked",
			progress: func() map[string]*domain.ClosureActionProgress { return allActionsDone(actions) },
			record: func() *domain.ClosureTrackRecord {
				rec := passingRecord()
				rec.SafetyCheck = domain.SafetyNone
				return rec
			},
		},
		{
			name:     "no record",
			progress: func() map[string]*domain.ClosureActionProgress { return allActionsDone(actions) },
			record:   func() *domain.ClosureTrackRecord { return nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, EvaluateClosure(actions, tt.progress(), tt.record()))
		})
	}
}

func TestEvaluateClosure_EmptyActionSetIsNeverComplete(t *testing.T) {
	assert.False(t, EvaluateClosure(nil, nil, passingRecord()))
}

func TestEvaluateClosure_ExtraProgressRowsIgnored(t *testing.T) {
	actions := []*domain.ClosureAction{testutil.NewTestClosureAction("Write letter", 1)}
	progress := allActionsDone(actions)
	progress["retired-action"] = &domain.ClosureActionProgress{ActionID: "retired-action", Status: domain.ActionPending}

	assert.True(t, EvaluateClosure(actions, progress, passingRecord()))
}
