package progression

import (
	"testing"
	"time"

	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/alexanderramin/staircase/internal/testutil"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func mustCatalog(t *testing.T, tc *testutil.TestCatalog) *Catalog {
	t.Helper()
	var days []*domain.Day
	for _, s := range tc.Stages {
		days = append(days, tc.Days[s.ID]...)
	}
	c, err := NewCatalog(tc.Stages, days, tc.Actions)
	require.NoError(t, err)
	return c
}

func progressOf(rows ...*domain.DayProgress) map[string]*domain.DayProgress {
	m := make(map[string]*domain.DayProgress, len(rows))
	for _, r := range rows {
		m[r.DayID] = r
	}
	return m
}

func allActionsDone(actions []*domain.ClosureAction) map[string]*domain.ClosureActionProgress {
	m := make(map[string]*domain.ClosureActionProgress, len(actions))
	for _, a := range actions {
		p := domain.MarkActionDone(nil, testUser, a.ID, testNow)
		m[a.ID] = &p
	}
	return m
}

func passingRecord() *domain.ClosureTrackRecord {
	rec := &domain.ClosureTrackRecord{UserID: testUser}
	rec.Sign(testNow)
	if err := rec.RecordSafetyCheck(domain.SafetySafe, testNow); err != nil {
		panic(err)
	}
	return rec
}

// standardCatalog is closure(2 days), detachment(1), acceptance(2),
// rebuilding(1) with two closure actions.
func standardCatalog() *testutil.TestCatalog {
	return testutil.BuildCatalog(2,
		testutil.StageSpec{Kind: domain.StageClosure, Days: 2},
		testutil.StageSpec{Kind: domain.StageDetachment, Days: 1},
		testutil.StageSpec{Kind: domain.StageAcceptance, Days: 2},
		testutil.StageSpec{Kind: domain.StageRebuilding, Days: 1},
	)
}
