package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/staircase/internal/db"
	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/alexanderramin/staircase/internal/repository"
	"github.com/alexanderramin/staircase/internal/testutil"
	"github.com/stretchr/testify/require"
)

// harness wires every service against one database and seeded catalog.
type harness struct {
	db          *sql.DB
	catalog     *testutil.TestCatalog
	catalogRepo repository.CatalogRepo
	days        repository.DayProgressRepo
	closure     repository.ClosureRepo
	uow         db.UnitOfWork
	activation  ActivationService
	progression ProgressionService
	completion  CompletionService
}

func newHarness(t *testing.T, database *sql.DB, actionCount int, specs ...testutil.StageSpec) *harness {
	t.Helper()
	h := &harness{
		db:          database,
		catalog:     testutil.SeedCatalog(t, database, actionCount, specs...),
		catalogRepo: repository.NewSQLiteCatalogRepo(database),
		days:        repository.NewSQLiteDayProgressRepo(database),
		closure:     repository.NewSQLiteClosureRepo(database),
		uow:         testutil.NewTestUoW(database),
	}
	h.activation = NewActivationService(h.uow)
	h.progression = h.newProgressionService()
	h.completion = NewCompletionService(h.catalogRepo, h.closure, h.uow)
	return h
}

// newProgressionService returns a facade with its own in-flight group.
func (h *harness) newProgressionService() ProgressionService {
	return NewProgressionService(h.catalogRepo, h.days, h.closure, h.activation)
}

// twoStageHarness is a closure stage with two days followed by a
// post-closure stage with one day, and two closure actions.
func twoStageHarness(t *testing.T) *harness {
	return newHarness(t, testutil.NewTestDB(t), 2,
		testutil.StageSpec{Kind: domain.StageClosure, Days: 2},
		testutil.StageSpec{Kind: domain.StageDetachment, Days: 1},
	)
}

// fullHarness adds acceptance (2 days) and rebuilding (1 day) stages.
func fullHarness(t *testing.T) *harness {
	return newHarness(t, testutil.NewTestDB(t), 2,
		testutil.StageSpec{Kind: domain.StageClosure, Days: 2},
		testutil.StageSpec{Kind: domain.StageDetachment, Days: 1},
		testutil.StageSpec{Kind: domain.StageAcceptance, Days: 2},
		testutil.StageSpec{Kind: domain.StageRebuilding, Days: 1},
	)
}

func (h *harness) completeClosure(t *testing.T, userID string, safety domain.SafetyCheckResult) {
	t.Helper()
	ctx := context.Background()
	for _, a := range h.catalog.Actions {
		_, err := h.completion.CompleteClosureAction(ctx, userID, a.ID)
		require.NoError(t, err)
	}
	_, err := h.completion.SignClosureAgreement(ctx, userID)
	require.NoError(t, err)
	_, err = h.completion.RecordSafetyCheck(ctx, userID, safety)
	require.NoError(t, err)
}

func (h *harness) activeRows(t *testing.T, userID string) []*domain.DayProgress {
	t.Helper()
	rows, err := h.days.ListActiveByUser(context.Background(), userID)
	require.NoError(t, err)
	return rows
}

func (h *harness) dayStatus(t *testing.T, userID, dayID string) domain.DayStatus {
	t.Helper()
	p, err := h.days.Get(context.Background(), userID, dayID)
	if err != nil {
		require.ErrorIs(t, err, repository.ErrNotFound)
		return domain.DayNotStarted
	}
	return p.Status
}

// hookedActivator runs before ahead of each status-checked activation, so a
// test can commit a competing write between Refresh's read and its write.
type hookedActivator struct {
	ActivationService
	before func(ctx context.Context, dayID string)
}

func (a *hookedActivator) ActivateFrom(ctx context.Context, userID, dayID string, observed domain.DayStatus) (*domain.DayProgress, error) {
	if a.before != nil {
		a.before(ctx, dayID)
	}
	return a.ActivationService.ActivateFrom(ctx, userID, dayID, observed)
}

func (h *harness) progressionServiceWith(activator ActivationService) ProgressionService {
	return NewProgressionService(h.catalogRepo, h.days, h.closure, activator)
}
