package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/alexanderramin/staircase/internal/progression"
	"github.com/alexanderramin/staircase/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivate_CreatesFirstRow(t *testing.T) {
	h := twoStageHarness(t)
	ctx := context.Background()
	user := testutil.NewTestUserID()
	day := h.catalog.Day(0, 1)

	p, err := h.activation.Activate(ctx, user, day.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DayActive, p.Status)
	assert.Equal(t, 0, p.CompletionPct)
	require.NotNil(t, p.StartedAt)
	assert.Equal(t, *p.StartedAt, p.LastActivityAt)

	stored, err := h.days.Get(ctx, user, day.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DayActive, stored.Status)
	require.NotNil(t, stored.StartedAt)
	assert.True(t, p.StartedAt.Equal(*stored.StartedAt), "returned %s, stored %s", p.StartedAt, stored.StartedAt)
	assert.True(t, p.LastActivityAt.Equal(stored.LastActivityAt), "returned %s, stored %s", p.LastActivityAt, stored.LastActivityAt)
}

func TestActivateFrom_RefusesChangedDay(t *testing.T) {
	h := twoStageHarness(t)
	ctx := context.Background()
	user := testutil.NewTestUserID()
	dayA := h.catalog.Day(0, 1)
	dayB := h.catalog.Day(0, 2)

	require.NoError(t, h.days.Upsert(ctx, testutil.NewTestDayProgress(user, dayA.ID, domain.DayCompleted,
		testutil.WithCompletionPct(100))))
	require.NoError(t, h.days.Upsert(ctx, testutil.NewTestDayProgress(user, dayB.ID, domain.DayActive)))

	_, err := h.activation.ActivateFrom(ctx, user, dayA.ID, domain.DayActive)
	require.ErrorIs(t, err, ErrDayChanged)
	assert.False(t, progression.IsCode(err, progression.CodeTransactionFailed))

	stored, err := h.days.Get(ctx, user, dayA.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DayCompleted, stored.Status)
	assert.Equal(t, 100, stored.CompletionPct)
	assert.Equal(t, domain.DayActive, h.dayStatus(t, user, dayB.ID), "nothing demoted")
}

func TestActivateFrom_MatchingStatus(t *testing.T) {
	h := twoStageHarness(t)
	ctx := context.Background()
	user := testutil.NewTestUserID()
	day := h.catalog.Day(0, 1)

	p, err := h.activation.ActivateFrom(ctx, user, day.ID, domain.DayNotStarted)
	require.NoError(t, err)
	assert.Equal(t, domain.DayActive, p.Status)

	_, err = h.activation.ActivateFrom(ctx, user, day.ID, domain.DayNotStarted)
	require.ErrorIs(t, err, ErrDayChanged, "already started")

	_, err = h.activation.ActivateFrom(ctx, user, day.ID, domain.DayActive)
	require.NoError(t, err)
	assert.Len(t, h.activeRows(t, user), 1)
}

// Activating B while A is active leaves A failed, B active, and another
// user's rows untouched.
func TestActivate_DemotesExactlyTheRightRows(t *testing.T) {
	h := twoStageHarness(t)
	ctx := context.Background()
	alice := testutil.NewTestUserID()
	bob := testutil.NewTestUserID()
	dayA := h.catalog.Day(0, 1)
	dayB := h.catalog.Day(0, 2)
	done := h.catalog.Day(1, 1)

	require.NoError(t, h.days.Upsert(ctx, testutil.NewTestDayProgress(alice, dayA.ID, domain.DayActive)))
	require.NoError(t, h.days.Upsert(ctx, testutil.NewTestDayProgress(alice, done.ID, domain.DayCompleted)))
	require.NoError(t, h.days.Upsert(ctx, testutil.NewTestDayProgress(bob, dayA.ID, domain.DayActive)))

	_, err := h.activation.Activate(ctx, alice, dayB.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.DayFailed, h.dayStatus(t, alice, dayA.ID))
	assert.Equal(t, domain.DayActive, h.dayStatus(t, alice, dayB.ID))
	assert.Equal(t, domain.DayCompleted, h.dayStatus(t, alice, done.ID), "terminal rows are not touched")
	assert.Equal(t, domain.DayActive, h.dayStatus(t, bob, dayA.ID), "other users are not touched")
	assert.Len(t, h.activeRows(t, alice), 1)
}

func TestActivate_ReactivationPreservesStartedAt(t *testing.T) {
	h := twoStageHarness(t)
	ctx := context.Background()
	user := testutil.NewTestUserID()
	day := h.catalog.Day(0, 1)

	started := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, h.days.Upsert(ctx, testutil.NewTestDayProgress(user, day.ID, domain.DayActive,
		testutil.WithStartedAt(started),
		testutil.WithLastActivityAt(started),
		testutil.WithCompletionPct(30),
	)))

	p, err := h.activation.Activate(ctx, user, day.ID)
	require.NoError(t, err)

	stored, err := h.days.Get(ctx, user, day.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, started, *stored.StartedAt, 0)
	assert.True(t, stored.LastActivityAt.After(started), "last activity refreshed")
	assert.Equal(t, 30, stored.CompletionPct)
	assert.Equal(t, 30, p.CompletionPct)
}

func TestActivate_Idempotent(t *testing.T) {
	h := twoStageHarness(t)
	ctx := context.Background()
	user := testutil.NewTestUserID()
	day := h.catalog.Day(0, 2)

	for i := 0; i < 3; i++ {
		_, err := h.activation.Activate(ctx, user, day.ID)
		require.NoError(t, err)
	}

	rows, err := h.days.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.DayActive, rows[0].Status)
}

func TestActivate_Preconditions(t *testing.T) {
	h := twoStageHarness(t)
	ctx := context.Background()

	_, err := h.activation.Activate(ctx, "", h.catalog.Day(0, 1).ID)
	assert.True(t, progression.IsCode(err, progression.CodePreconditionFailed))

	_, err = h.activation.Activate(ctx, "user", "")
	assert.True(t, progression.IsCode(err, progression.CodePreconditionFailed))
}

func TestActivate_UnknownDayIsTransactionFailure(t *testing.T) {
	h := twoStageHarness(t)

	_, err := h.activation.Activate(context.Background(), testutil.NewTestUserID(), "no-such-day")
	require.Error(t, err)
	assert.True(t, progression.IsCode(err, progression.CodeTransactionFailed))
}

// Exec #1 demotes the old day, #2 upserts the new one. Failing #2 must leave
// the old day active and the new day absent.
func TestActivate_RollbackOnUpsertFailure(t *testing.T) {
	h := twoStageHarness(t)
	ctx := context.Background()
	user := testutil.NewTestUserID()
	dayA := h.catalog.Day(0, 1)
	dayB := h.catalog.Day(0, 2)

	require.NoError(t, h.days.Upsert(ctx, testutil.NewTestDayProgress(user, dayA.ID, domain.DayActive)))

	failing := NewActivationService(&testutil.FailOnNthExecUoW{
		DB:     h.db,
		FailOn: 2,
		Err:    fmt.Errorf("injected upsert failure"),
	})

	_, err := failing.Activate(ctx, user, dayB.ID)
	require.Error(t, err)
	assert.True(t, progression.IsCode(err, progression.CodeTransactionFailed))
	assert.Contains(t, err.Error(), "injected upsert failure")

	assert.Equal(t, domain.DayActive, h.dayStatus(t, user, dayA.ID), "demotion rolled back")
	assert.Equal(t, domain.DayNotStarted, h.dayStatus(t, user, dayB.ID))
}

func TestActivate_RollbackOnDemoteFailure(t *testing.T) {
	h := twoStageHarness(t)
	ctx := context.Background()
	user := testutil.NewTestUserID()
	dayA := h.catalog.Day(0, 1)
	dayB := h.catalog.Day(0, 2)

	require.NoError(t, h.days.Upsert(ctx, testutil.NewTestDayProgress(user, dayA.ID, domain.DayActive)))

	failing := NewActivationService(&testutil.FailOnNthExecUoW{
		DB:     h.db,
		FailOn: 1,
		Err:    fmt.Errorf("injected demote failure"),
	})

	_, err := failing.Activate(ctx, user, dayB.ID)
	require.Error(t, err)
	assert.Equal(t, domain.DayActive, h.dayStatus(t, user, dayA.ID))
	assert.Equal(t, domain.DayNotStarted, h.dayStatus(t, user, dayB.ID))
}
