package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/staircase/internal/domain"
)

// ErrNotFound is returned (wrapped) when a single-row lookup finds nothing.
var ErrNotFound = errors.New("not found")

// CatalogRepo reads and seeds the static program catalog: stages, their
// days, and the closure track's required actions.
type CatalogRepo interface {
	ListStages(ctx context.Context) ([]*domain.Stage, error)
	ListDays(ctx context.Context) ([]*domain.Day, error)
	GetDay(ctx context.Context, id string) (*domain.Day, error)
	ListClosureActions(ctx context.Context) ([]*domain.ClosureAction, error)
	CreateStage(ctx context.Context, s *domain.Stage) error
	CreateDay(ctx context.Context, d *domain.Day) error
	CreateClosureAction(ctx context.Context, a *domain.ClosureAction) error
}

type DayProgressRepo interface {
	Get(ctx context.Context, userID, dayID string) (*domain.DayProgress, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.DayProgress, error)
	ListActiveByUser(ctx context.Context, userID string) ([]*domain.DayProgress, error)
	Update(ctx context.Context, p *domain.DayProgress) error
	Upsert(ctx context.Context, p *domain.DayProgress) error
}

type ClosureRepo interface {
	GetActionProgress(ctx context.Context, userID, actionID string) (*domain.ClosureActionProgress, error)
	ListActionProgress(ctx context.Context, userID string) ([]*domain.ClosureActionProgress, error)
	UpsertActionProgress(ctx context.Context, p *domain.ClosureActionProgress) error
	GetTrackRecord(ctx context.Context, userID string) (*domain.ClosureTrackRecord, error)
	UpsertTrackRecord(ctx context.Context, r *domain.ClosureTrackRecord) error
}
