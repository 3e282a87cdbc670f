package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/alexanderramin/staircase/internal/progression"
	"github.com/alexanderramin/staircase/internal/repository"
	"golang.org/x/sync/errgroup"
)

// loadCatalog reads stages, days and closure actions concurrently and builds
// a validated catalog.
func loadCatalog(ctx context.Context, repo repository.CatalogRepo) (*progression.Catalog, error) {
	var (
		stages  []*domain.Stage
		days    []*domain.Day
		actions []*domain.ClosureAction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stages, err = repo.ListStages(gctx)
		return err
	})
	g.Go(func() (err error) {
		days, err = repo.ListDays(gctx)
		return err
	})
	g.Go(func() (err error) {
		actions, err = repo.ListClosureActions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return progression.NewCatalog(stages, days, actions)
}

// loadUserState reads one user's day progress, closure action progress and
// closure track record concurrently. A missing record is not an error.
func loadUserState(
	ctx context.Context,
	days repository.DayProgressRepo,
	closure repository.ClosureRepo,
	userID string,
) (progression.UserState, error) {
	var (
		dayRows    []*domain.DayProgress
		actionRows []*domain.ClosureActionProgress
		record     *domain.ClosureTrackRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dayRows, err = days.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		actionRows, err = closure.ListActionProgress(gctx, userID)
		return err
	})
	g.Go(func() error {
		rec, err := closure.GetTrackRecord(gctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		record = rec
		return nil
	})
	if err := g.Wait(); err != nil {
		return progression.UserState{}, fmt.Errorf("loading progress for %s: %w", userID, err)
	}
	return progression.NewUserState(dayRows, actionRows, record), nil
}
