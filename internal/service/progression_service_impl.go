package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/staircase/internal/app"
	"github.com/alexanderramin/staircase/internal/progression"
	"github.com/alexanderramin/staircase/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

type progressionService struct {
	catalog   repository.CatalogRepo
	days      repository.DayProgressRepo
	closure   repository.ClosureRepo
	activator ActivationService
	observer  UseCaseObserver
	inflight  singleflight.Group
}

func NewProgressionService(
	catalog repository.CatalogRepo,
	days repository.DayProgressRepo,
	closure repository.ClosureRepo,
	activator ActivationService,
	observers ...UseCaseObserver,
) ProgressionService {
	return &progressionService{
		catalog:   catalog,
		days:      days,
		closure:   closure,
		activator: activator,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Refresh resolves the user's desired active day, converges stored progress
// onto it, then resolves again and returns the result. Concurrent calls for
// the same user in this process share one execution and its result. The
// shared execution ignores the cancellation of whichever caller started it;
// each caller stops waiting when its own ctx is done.
func (s *progressionService) Refresh(ctx context.Context, userID string) (*app.ProgressionSnapshot, error) {
	if userID == "" {
		return nil, progression.Errorf(progression.CodePreconditionFailed, "user id is required")
	}
	ch := s.inflight.DoChan(userID, func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx), userID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return cloneSnapshot(r.Val.(*app.ProgressionSnapshot)), nil
	}
}

func (s *progressionService) refresh(ctx context.Context, userID string) (snap *app.ProgressionSnapshot, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": userID}
	defer observe(ctx, s.observer, "refresh", startedAt, fields, &err)

	ctx, span := tracer.Start(ctx, "service.Refresh", trace.WithAttributes(
		attribute.String("staircase.user_id", userID),
	))
	defer endSpan(span, &err)

	c, err := loadCatalog(ctx, s.catalog)
	if err != nil {
		return nil, err
	}

	// Normally one activation settles it: the second pass picks the day just
	// activated. When demoting a stray active row changes which stage is
	// active, another pass follows; each extra pass makes one more day
	// terminal, so the loop is bounded by the day count. A pass is also lost
	// when another writer moved the desired day first, and a day moves at
	// most twice: once to active, once to terminal.
	maxPasses := len(c.Stages) + 1
	for _, days := range c.Days {
		maxPasses += 2 * len(days)
	}

	desired := ""
	for pass := 0; pass < maxPasses; pass++ {
		state, err := loadUserState(ctx, s.days, s.closure, userID)
		if err != nil {
			return nil, err
		}
		res, err := progression.Resolve(c, state)
		if err != nil {
			return nil, err
		}
		if res.ActiveDay.ID == desired {
			fields["passes"] = pass
			fields["stage"] = string(res.ActiveStage.Kind)
			fields["day_id"] = res.ActiveDay.ID
			span.SetAttributes(
				attribute.String("staircase.stage_kind", string(res.ActiveStage.Kind)),
				attribute.String("staircase.day_id", res.ActiveDay.ID),
			)
			return buildSnapshot(userID, res), nil
		}

		desired = res.ActiveDay.ID
		observed := progression.DayStatusOf(res.ActiveProgress)
		if _, err := s.activator.ActivateFrom(ctx, userID, desired, observed); err != nil {
			if !errors.Is(err, ErrDayChanged) {
				return nil, err
			}
			// A completion landed between the read and the write; pick again.
			desired = ""
		}
	}
	return nil, progression.Errorf(progression.CodeInvalidActiveDayCount,
		"active day for %s did not settle after %d passes", userID, maxPasses)
}

func buildSnapshot(userID string, res *progression.Result) *app.ProgressionSnapshot {
	snap := &app.ProgressionSnapshot{
		UserID:           userID,
		ClosureCompleted: res.ClosureCompleted,
		ActiveStage: app.ActiveStageView{
			StageID:   res.ActiveStage.StageID,
			Kind:      res.ActiveStage.Kind,
			Title:     res.ActiveStage.Title,
			Unlocked:  res.ActiveStage.Unlocked,
			Completed: res.ActiveStage.Completed,
		},
		ActiveDay: app.ActiveDayView{
			StageID:   res.ActiveDay.StageID,
			StageKind: res.ActiveStage.Kind,
			DayID:     res.ActiveDay.ID,
			DayNumber: res.ActiveDay.Number,
			Title:     res.ActiveDay.Title,
			Status:    progression.DayStatusOf(res.ActiveProgress),
		},
		Stages: make([]app.StageStateView, 0, len(res.Stages)),
	}
	if p := res.ActiveProgress; p != nil {
		snap.ActiveDay.CompletionPct = p.CompletionPct
		snap.ActiveDay.StartedAt = p.StartedAt
	}
	for _, st := range res.Stages {
		snap.Stages = append(snap.Stages, app.StageStateView{
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
	return snap
}

// cloneSnapshot copies the stage slice so callers sharing one in-flight
// result cannot see each other's edits.
func cloneSnapshot(s *app.ProgressionSnapshot) *app.ProgressionSnapshot {
	out := *s
	out.Stages = append([]app.StageStateView(nil), s.Stages...)
	return &out
}
