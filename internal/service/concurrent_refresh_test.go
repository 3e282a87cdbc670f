package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/alexanderramin/staircase/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Refreshes racing through separate facades share nothing in memory; only
// the database serializes them.
func TestRefresh_Concurrent_SeparateInstances(t *testing.T) {
	h := newHarness(t, testutil.NewFileTestDB(t), 2,
		testutil.StageSpec{Kind: domain.StageClosure, Days: 2},
		testutil.StageSpec{Kind: domain.StageDetachment, Days: 1},
	)
	ctx := context.Background()
	user := testutil.NewTestUserID()
	h.completeClosure(t, user, domain.SafetySafe)

	// A stale active closure day forces every racer to demote.
	require.NoError(t, h.days.Upsert(ctx, testutil.NewTestDayProgress(user, h.catalog.Day(0, 1).ID, domain.DayActive)))

	const workers = 8
	dayIDs := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := h.newProgressionService().Refresh(ctx, user)
			errs[i] = err
			if err == nil {
				dayIDs[i] = snap.ActiveDay.DayID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i], "worker %d", i)
		assert.Equal(t, h.catalog.Day(1, 1).ID, dayIDs[i], "worker %d", i)
	}

	active := h.activeRows(t, user)
	require.Len(t, active, 1)
	assert.Equal(t, h.catalog.Day(1, 1).ID, active[0].DayID)
	assert.Equal(t, domain.DayFailed, h.dayStatus(t, user, h.catalog.Day(0, 1).ID))
}

func TestRefresh_Concurrent_SharedInstance(t *testing.T) {
	h := newHarness(t, testutil.NewFileTestDB(t), 1,
		testutil.StageSpec{Kind: domain.StageClosure, Days: 3},
	)
	ctx := context.Background()
	users := []string{testutil.NewTestUserID(), testutil.NewTestUserID(), testutil.NewTestUserID()}

	var wg sync.WaitGroup
	errs := make(chan error, len(users)*4)
	for _, u := range users {
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func(u string) {
				defer wg.Done()
				snap, err := h.progression.Refresh(ctx, u)
				if err != nil {
					errs <- err
					return
				}
				// Each caller owns its copy.
				snap.Stages[0].Title = "mutated"
			}(u)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	for _, u := range users {
		active := h.activeRows(t, u)
		require.Len(t, active, 1, "user %s", u)
		assert.Equal(t, h.catalog.Day(0, 1).ID, active[0].DayID)

		snap, err := h.progression.Refresh(ctx, u)
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", snap.Stages[0].Title)
	}
}

// A completion committed after Refresh picked its day but before it
// activated that day must survive; Refresh moves on to the next day.
func TestRefresh_CompletionBetweenReadAndActivate(t *testing.T) {
	h := twoStageHarness(t)
	ctx := context.Background()
	user := testutil.NewTestUserID()
	dayA := h.catalog.Day(0, 1)
	dayB := h.catalog.Day(0, 2)

	snap, err := h.progression.Refresh(ctx, user)
	require.NoError(t, err)
	require.Equal(t, dayA.ID, snap.ActiveDay.DayID)

	var once sync.Once
	svc := h.progressionServiceWith(&hookedActivator{
		ActivationService: h.activation,
		before: func(ctx context.Context, dayID string) {
			if dayID != dayA.ID {
				return
			}
			once.Do(func() {
				_, err := h.completion.CompleteDay(ctx, user, dayA.ID, domain.DayCompleted)
				assert.NoError(t, err)
			})
		},
	})

	snap, err = svc.Refresh(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, dayB.ID, snap.ActiveDay.DayID)
	assert.Equal(t, domain.DayActive, snap.ActiveDay.Status)

	stored, err := h.days.Get(ctx, user, dayA.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DayCompleted, stored.Status)
	assert.Equal(t, 100, stored.CompletionPct)

	active := h.activeRows(t, user)
	require.Len(t, active, 1)
	assert.Equal(t, dayB.ID, active[0].DayID)
}

// Cancelling the caller that started a shared refresh must not cancel the
// work other callers are waiting on.
func TestRefresh_CallerCancelDoesNotCancelSharedWork(t *testing.T) {
	h := twoStageHarness(t)
	user := testutil.NewTestUserID()
	dayA := h.catalog.Day(0, 1)

	callerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sharedErr error
	var once sync.Once
	svc := h.progressionServiceWith(&hookedActivator{
		ActivationService: h.activation,
		before: func(ctx context.Context, _ string) {
			once.Do(func() {
				cancel()
				sharedErr = ctx.Err()
			})
		},
	})

	_, err := svc.Refresh(callerCtx, user)
	if err != nil {
		require.True(t, errors.Is(err, context.Canceled), "unexpected error: %v", err)
	}

	// Joins the still running call or starts a fresh one.
	snap, err := svc.Refresh(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, dayA.ID, snap.ActiveDay.DayID)

	assert.NoError(t, sharedErr, "shared refresh saw the caller's cancellation")
	active := h.activeRows(t, user)
	require.Len(t, active, 1)
	assert.Equal(t, dayA.ID, active[0].DayID)
}

func TestRefresh_CancelledCallerReturnsContextError(t *testing.T) {
	h := twoStageHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	user := testutil.NewTestUserID()
	release := make(chan struct{})
	svc := h.progressionServiceWith(&hookedActivator{
		ActivationService: h.activation,
		before:            func(context.Context, string) { <-release },
	})

	_, err := svc.Refresh(ctx, user)
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	snap, err := svc.Refresh(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, h.catalog.Day(0, 1).ID, snap.ActiveDay.DayID)
}
