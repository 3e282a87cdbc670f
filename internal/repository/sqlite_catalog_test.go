package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/alexanderramin/staircase/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepo_CreateAndListStages(t *testing.T) {
	repo := NewSQLiteCatalogRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	second := testutil.NewTestStage(domain.StageDetachment, 2, testutil.WithStageTitle("Letting go"))
	first := testutil.NewTestStage(domain.StageClosure, 1, testutil.WithStageTitle("Closure"))
	require.NoError(t, repo.CreateStage(ctx, second))
	require.NoError(t, repo.CreateStage(ctx, first))

	stages, err := repo.ListStages(ctx)
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, first.ID, stages[0].ID, "ordered by sort order")
	assert.Equal(t, domain.StageClosure, stages[0].Kind)
	assert.Equal(t, "Closure", stages[0].Title)
	assert.Equal(t, second.ID, stages[1].ID)
	assert.WithinDuration(t, first.CreatedAt, stages[0].CreatedAt, 0)
}

func TestCatalogRepo_DuplicateSortOrderRejected(t *testing.T) {
	repo := NewSQLiteCatalogRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateStage(ctx, testutil.NewTestStage(domain.StageClosure, 1)))
	err := repo.CreateStage(ctx, testutil.NewTestStage(domain.StageAcceptance, 1))
	assert.Error(t, err)
}

func TestCatalogRepo_Days(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteCatalogRepo(database)
	ctx := context.Background()

	stage := testutil.NewTestStage(domain.StageClosure, 1)
	require.NoError(t, repo.CreateStage(ctx, stage))
	day2 := testutil.NewTestDay(stage.ID, 2)
	day1 := testutil.NewTestDay(stage.ID, 1)
	require.NoError(t, repo.CreateDay(ctx, day2))
	require.NoError(t, repo.CreateDay(ctx, day1))

	days, err := repo.ListDays(ctx)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 1, days[0].Number)
	assert.Equal(t, 2, days[1].Number)

	got, err := repo.GetDay(ctx, day2.ID)
	require.NoError(t, err)
	assert.Equal(t, stage.ID, got.StageID)
	assert.Equal(t, "Day 2", got.Title)

	_, err = repo.GetDay(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)

	// Same number twice in one stage.
	assert.Error(t, repo.CreateDay(ctx, testutil.NewTestDay(stage.ID, 1)))
	// Unknown stage.
	assert.Error(t, repo.CreateDay(ctx, testutil.NewTestDay("ghost", 1)))
}

func TestCatalogRepo_ClosureActions(t *testing.T) {
	repo := NewSQLiteCatalogRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	b := testutil.NewTestClosureAction("Return keys", 2)
	a := testutil.NewTestClosureAction("Write letter", 1)
	require.NoError(t, repo.CreateClosureAction(ctx, b))
	require.NoError(t, repo.CreateClosureAction(ctx, a))

	actions, err := repo.ListClosureActions(ctx)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "Write letter", actions[0].Title)
	assert.Equal(t, "Return keys", actions[1].Title)
}

func TestCatalogRepo_EmptyCatalog(t *testing.T) {
	repo := NewSQLiteCatalogRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	stages, err := repo.ListStages(ctx)
	require.NoError(t, err)
	assert.Empty(t, stages)

	actions, err := repo.ListClosureActions(ctx)
	require.NoError(t, err)
	assert.Empty(t, actions)
}
