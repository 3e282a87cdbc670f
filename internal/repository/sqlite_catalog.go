package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/staircase/internal/db"
	"github.com/alexanderramin/staircase/internal/domain"
)

// SQLiteCatalogRepo implements CatalogRepo using a SQLite database.
type SQLiteCatalogRepo struct {
	db db.DBTX
}

// NewSQLiteCatalogRepo creates a new SQLiteCatalogRepo.
func NewSQLiteCatalogRepo(conn db.DBTX) *SQLiteCatalogRepo {
	return &SQLiteCatalogRepo{db: conn}
}

func (r *SQLiteCatalogRepo) ListStages(ctx context.Context) ([]*domain.Stage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, sort_order, title, created_at FROM stages ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("listing stages: %w", err)
	}
	defer rows.Close()

	var stages []*domain.Stage
	for rows.Next() {
		var s domain.Stage
		var kind, createdAt string
		if err := rows.Scan(&s.ID, &kind, &s.SortOrder, &s.Title, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning stage row: %w", err)
		}
		if s.Kind, err = domain.ParseStageKind(kind); err != nil {
			return nil, fmt.Errorf("stage %s: %w", s.ID, err)
		}
		if s.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parsing stage created_at: %w", err)
		}
		stages = append(stages, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stages: %w", err)
	}
	return stages, nil
}

// ListDays returns every day in the catalog grouped by stage, ordered by day number.
func (r *SQLiteCatalogRepo) ListDays(ctx context.Context) ([]*domain.Day, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, stage_id, day_number, title, created_at FROM days ORDER BY stage_id, day_number`)
	if err != nil {
		return nil, fmt.Errorf("listing days: %w", err)
	}
	defer rows.Close()

	var days []*domain.Day
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating days: %w", err)
	}
	return days, nil
}

func (r *SQLiteCatalogRepo) GetDay(ctx context.Context, id string) (*domain.Day, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, stage_id, day_number, title, created_at FROM days WHERE id = ?`, id)
	return scanDay(row)
}

func (r *SQLiteCatalogRepo) ListClosureActions(ctx context.Context) ([]*domain.ClosureAction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, sort_order, created_at FROM closure_actions ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("listing closure actions: %w", err)
	}
	defer rows.Close()

	var actions []*domain.ClosureAction
	for rows.Next() {
		var a domain.ClosureAction
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Title, &a.SortOrder, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning closure action row: %w", err)
		}
		if a.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parsing closure action created_at: %w", err)
		}
		actions = append(actions, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating closure actions: %w", err)
	}
	return actions, nil
}

func (r *SQLiteCatalogRepo) CreateStage(ctx context.Context, s *domain.Stage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stages (id, kind, sort_order, title, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.ID, string(s.Kind), s.SortOrder, s.Title, timeToString(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting stage: %w", err)
	}
	return nil
}

func (r *SQLiteCatalogRepo) CreateDay(ctx context.Context, d *domain.Day) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO days (id, stage_id, day_number, title, created_at) VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.StageID, d.Number, d.Title, timeToString(d.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting day: %w", err)
	}
	return nil
}

func (r *SQLiteCatalogRepo) CreateClosureAction(ctx context.Context, a *domain.ClosureAction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO closure_actions (id, title, sort_order, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Title, a.SortOrder, timeToString(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting closure action: %w", err)
	}
	return nil
}

func scanDay(row rowScanner) (*domain.Day, error) {
	var d domain.Day
	var createdAt string
	if err := row.Scan(&d.ID, &d.StageID, &d.Number, &d.Title, &createdAt); err != nil {
		return nil, notFound(err, "day")
	}
	var err error
	if d.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parsing day created_at: %w", err)
	}
	return &d, nil
}
