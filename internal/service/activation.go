package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/staircase/internal/db"
	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/alexanderramin/staircase/internal/progression"
	"github.com/alexanderramin/staircase/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrDayChanged reports that the day's stored status moved away from the one
// the caller observed before asking for activation.
var ErrDayChanged = errors.New("day progress changed since it was read")

type activationService struct {
	uow      db.UnitOfWork
	now      func() time.Time
	observer UseCaseObserver
}

func NewActivationService(uow db.UnitOfWork, observers ...UseCaseObserver) ActivationService {
	return &activationService{
		uow:      uow,
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

// Activate makes dayID the user's only active day. In one transaction every
// other active row of the user is marked failed, then the desired row is
// created or reactivated. started_at is written once; last_activity_at moves
// on every call. Re-running with the same arguments converges to the same
// rows.
func (s *activationService) Activate(ctx context.Context, userID, dayID string) (*domain.DayProgress, error) {
	return s.activate(ctx, userID, dayID, nil)
}

// ActivateFrom activates dayID only if its stored status still equals
// observed when the transaction reads it. Otherwise nothing is written and
// the error wraps ErrDayChanged, so a finished day is never reopened by a
// caller working from a stale read.
func (s *activationService) ActivateFrom(ctx context.Context, userID, dayID string, observed domain.DayStatus) (*domain.DayProgress, error) {
	return s.activate(ctx, userID, dayID, &observed)
}

func (s *activationService) activate(ctx context.Context, userID, dayID string, observed *domain.DayStatus) (result *domain.DayProgress, err error) {
	if userID == "" || dayID == "" {
		return nil, progression.Errorf(progression.CodePreconditionFailed, "user id and day id are required")
	}

	startedAt := time.Now()
	fields := map[string]any{"user_id": userID, "day_id": dayID}
	defer observe(ctx, s.observer, "activate-day", startedAt, fields, &err)

	ctx, span := tracer.Start(ctx, "service.Activate", trace.WithAttributes(
		attribute.String("staircase.user_id", userID),
		attribute.String("staircase.day_id", dayID),
	))
	defer endSpan(span, &err)

	now := s.now()
	demoted := 0
	txErr := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		days := repository.NewSQLiteDayProgressRepo(tx)

		prev, err := days.Get(ctx, userID, dayID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if observed != nil {
			if current := progression.DayStatusOf(prev); current != *observed {
				return fmt.Errorf("day %s is %s, expected %s: %w", dayID, current, *observed, ErrDayChanged)
			}
		}

		active, err := days.ListActiveByUser(ctx, userID)
		if err != nil {
			return err
		}
		// Demote first: the single-active index rejects the upsert otherwise.
		for _, row := range active {
			if row.DayID == dayID {
				continue
			}
			failed := domain.TransitionToFailed(*row, now)
			if err := days.Update(ctx, &failed); err != nil {
				return err
			}
			demoted++
		}

		next := domain.TransitionToActive(prev, userID, dayID, now)
		if err := days.Upsert(ctx, &next); err != nil {
			return err
		}
		result = &next
		return nil
	})
	fields["demoted"] = demoted
	span.SetAttributes(attribute.Int("staircase.demoted", demoted))
	if errors.Is(txErr, ErrDayChanged) {
		fields["changed"] = true
		return nil, txErr
	}
	if txErr != nil {
		return nil, progression.Wrap(progression.CodeTransactionFailed, txErr, "activating day")
	}
	return result, nil
}
