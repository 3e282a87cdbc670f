package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/staircase/internal/app"
	"github.com/alexanderramin/staircase/internal/db"
	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/alexanderramin/staircase/internal/progression"
	"github.com/alexanderramin/staircase/internal/repository"
)

type completionService struct {
	catalog  repository.CatalogRepo
	closure  repository.ClosureRepo
	uow      db.UnitOfWork
	now      func() time.Time
	observer UseCaseObserver
}

func NewCompletionService(
	catalog repository.CatalogRepo,
	closure repository.ClosureRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) CompletionService {
	return &completionService{
		catalog:  catalog,
		closure:  closure,
		uow:      uow,
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

// CompleteDay records a day as completed or failed. A day may be finished
// without ever having been activated. Finishing a day again with the status
// it already has is a no-op; switching a finished day to the other outcome
// is refused until it is explicitly reactivated.
func (s *completionService) CompleteDay(ctx context.Context, userID, dayID string, status domain.DayStatus) (result *domain.DayProgress, err error) {
	if userID == "" || dayID == "" {
		return nil, progression.Errorf(progression.CodePreconditionFailed, "user id and day id are required")
	}
	if status != domain.DayCompleted && status != domain.DayFailed {
		return nil, fmt.Errorf("day can only be finished as %s or %s, got %q", domain.DayCompleted, domain.DayFailed, status)
	}

	startedAt := time.Now()
	fields := map[string]any{"user_id": userID, "day_id": dayID, "status": string(status)}
	defer observe(ctx, s.observer, "complete-day", startedAt, fields, &err)

	now := s.now()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteCatalogRepo(tx).GetDay(ctx, dayID); err != nil {
			return fmt.Errorf("day %s: %w", dayID, err)
		}
		days := repository.NewSQLiteDayProgressRepo(tx)
		prev, err := getDayProgress(ctx, days, userID, dayID)
		if err != nil {
			return err
		}
		if prev != nil && prev.IsTerminal() {
			if prev.Status != status {
				return progression.Errorf(progression.CodePreconditionFailed,
					"day %s is already %s", dayID, prev.Status)
			}
			result = prev
			return nil
		}

		var next domain.DayProgress
		switch status {
		case domain.DayCompleted:
			next = domain.TransitionToCompleted(prev, userID, dayID, now)
		case domain.DayFailed:
			next = domain.TransitionToFailed(domain.TransitionToActive(prev, userID, dayID, now), now)
		}
		if err := days.Upsert(ctx, &next); err != nil {
			return err
		}
		result = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetDayCompletion updates the completion percentage of a started day.
func (s *completionService) SetDayCompletion(ctx context.Context, userID, dayID string, pct int) (result *domain.DayProgress, err error) {
	if userID == "" || dayID == "" {
		return nil, progression.Errorf(progression.CodePreconditionFailed, "user id and day id are required")
	}

	startedAt := time.Now()
	fields := map[string]any{"user_id": userID, "day_id": dayID, "pct": pct}
	defer observe(ctx, s.observer, "set-day-completion", startedAt, fields, &err)

	now := s.now()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		days := repository.NewSQLiteDayProgressRepo(tx)
		prev, err := getDayProgress(ctx, days, userID, dayID)
		if err != nil {
			return err
		}
		next, err := domain.WithCompletion(prev, pct, now)
		if err != nil {
			return fmt.Errorf("day %s: %w", dayID, err)
		}
		if err := days.Update(ctx, &next); err != nil {
			return err
		}
		result = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *completionService) CompleteClosureAction(ctx context.Context, userID, actionID string) (status *app.ClosureStatus, err error) {
	if userID == "" || actionID == "" {
		return nil, progression.Errorf(progression.CodePreconditionFailed, "user id and action id are required")
	}

	startedAt := time.Now()
	fields := map[string]any{"user_id": userID, "action_id": actionID}
	defer observe(ctx, s.observer, "complete-closure-action", startedAt, fields, &err)

	return s.mutateClosure(ctx, userID, func(ctx context.Context, closure repository.ClosureRepo, actions []*domain.ClosureAction, _ *domain.ClosureTrackRecord, now time.Time) error {
		if !hasAction(actions, actionID) {
			return fmt.Errorf("closure action %s: %w", actionID, repository.ErrNotFound)
		}
		prev, err := closure.GetActionProgress(ctx, userID, actionID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		next := domain.MarkActionDone(prev, userID, actionID, now)
		return closure.UpsertActionProgress(ctx, &next)
	})
}

func (s *completionService) SignClosureAgreement(ctx context.Context, userID string) (status *app.ClosureStatus, err error) {
	if userID == "" {
		return nil, progression.Errorf(progression.CodePreconditionFailed, "user id is required")
	}

	startedAt := time.Now()
	fields := map[string]any{"user_id": userID}
	defer observe(ctx, s.observer, "sign-closure-agreement", startedAt, fields, &err)

	return s.mutateClosure(ctx, userID, func(_ context.Context, _ repository.ClosureRepo, _ []*domain.ClosureAction, rec *domain.ClosureTrackRecord, now time.Time) error {
		rec.Sign(now)
		return nil
	})
}

func (s *completionService) RecordSafetyCheck(ctx context.Context, userID string, result domain.SafetyCheckResult) (status *app.ClosureStatus, err error) {
	if userID == "" {
		return nil, progression.Errorf(progression.CodePreconditionFailed, "user id is required")
	}

	startedAt := time.Now()
	fields := map[string]any{"user_id": userID, "result": string(result)}
	defer observe(ctx, s.observer, "record-safety-check", startedAt, fields, &err)

	return s.mutateClosure(ctx, userID, func(_ context.Context, _ repository.ClosureRepo, _ []*domain.ClosureAction, rec *domain.ClosureTrackRecord, now time.Time) error {
		return rec.RecordSafetyCheck(result, now)
	})
}

// GetClosureStatus reads the closure track without changing it.
func (s *completionService) GetClosureStatus(ctx context.Context, userID string) (*app.ClosureStatus, error) {
	if userID == "" {
		return nil, progression.Errorf(progression.CodePreconditionFailed, "user id is required")
	}
	actions, err := s.catalog.ListClosureActions(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := getTrackRecord(ctx, s.closure, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.closure.ListActionProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	return closureStatus(userID, actions, rows, rec), nil
}

type closureMutation func(ctx context.Context, closure repository.ClosureRepo, actions []*domain.ClosureAction, rec *domain.ClosureTrackRecord, now time.Time) error

// mutateClosure applies fn in a transaction, then re-evaluates the track.
// The first time it evaluates complete the record's unlock time is stamped,
// which is what the post-closure stage reports as its unlocked-at.
func (s *completionService) mutateClosure(ctx context.Context, userID string, fn closureMutation) (*app.ClosureStatus, error) {
	now := s.now()
	var status *app.ClosureStatus

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		closure := repository.NewSQLiteClosureRepo(tx)
		actions, err := repository.NewSQLiteCatalogRepo(tx).ListClosureActions(ctx)
		if err != nil {
			return err
		}
		rec, err := getTrackRecord(ctx, closure, userID)
		if err != nil {
			return err
		}
		if rec == nil {
			rec = &domain.ClosureTrackRecord{UserID: userID, UpdatedAt: now}
		}
		before := *rec

		if err := fn(ctx, closure, actions, rec, now); err != nil {
			return err
		}

		rows, err := closure.ListActionProgress(ctx, userID)
		if err != nil {
			return err
		}
		status = closureStatus(userID, actions, rows, rec)
		if status.Completed && rec.MarkNextStageUnlocked(now) {
			status.NextStageUnlockedAt = rec.NextStageUnlockedAt
		}

		if *rec != before {
			if err := closure.UpsertTrackRecord(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func closureStatus(
	userID string,
	actions []*domain.ClosureAction,
	rows []*domain.ClosureActionProgress,
	rec *domain.ClosureTrackRecord,
) *app.ClosureStatus {
	state := progression.NewUserState(nil, rows, rec)
	st := &app.ClosureStatus{
		UserID:       userID,
		ActionsTotal: len(actions),
		Signed:       rec.IsSigned(),
		Completed:    progression.EvaluateClosure(actions, state.ActionProgress, rec),
	}
	for _, a := range actions {
		if p, ok := state.ActionProgress[a.ID]; ok && p.Status == domain.ActionDone {
			st.ActionsDone++
		}
	}
	if rec != nil {
		st.SafetyCheck = rec.SafetyCheck
		st.NextStageUnlockedAt = rec.NextStageUnlockedAt
	}
	return st
}

func hasAction(actions []*domain.ClosureAction, id string) bool {
	for _, a := range actions {
		if a.ID == id {
			return true
		}
	}
	return false
}

func getDayProgress(ctx context.Context, repo repository.DayProgressRepo, userID, dayID string) (*domain.DayProgress, error) {
	p, err := repo.Get(ctx, userID, dayID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

func getTrackRecord(ctx context.Context, repo repository.ClosureRepo, userID string) (*domain.ClosureTrackRecord, error) {
	rec, err := repo.GetTrackRecord(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}
