package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/staircase/internal/db"
	"github.com/alexanderramin/staircase/internal/domain"
)

// SQLiteDayProgressRepo implements DayProgressRepo using a SQLite database.
type SQLiteDayProgressRepo struct {
	db db.DBTX
}

// NewSQLiteDayProgressRepo creates a new SQLiteDayProgressRepo.
func NewSQLiteDayProgressRepo(conn db.DBTX) *SQLiteDayProgressRepo {
	return &SQLiteDayProgressRepo{db: conn}
}

const dayProgressColumns = `user_id, day_id, status, completion_pct, started_at, last_activity_at`

func (r *SQLiteDayProgressRepo) Get(ctx context.Context, userID, dayID string) (*domain.DayProgress, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+dayProgressColumns+` FROM day_progress WHERE user_id = ? AND day_id = ?`, userID, dayID)
	return scanDayProgress(row)
}

func (r *SQLiteDayProgressRepo) ListByUser(ctx context.Context, userID string) ([]*domain.DayProgress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+dayProgressColumns+` FROM day_progress WHERE user_id = ? ORDER BY day_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing day progress: %w", err)
	}
	defer rows.Close()
	return scanDayProgressRows(rows)
}

func (r *SQLiteDayProgressRepo) ListActiveByUser(ctx context.Context, userID string) ([]*domain.DayProgress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+dayProgressColumns+` FROM day_progress WHERE user_id = ? AND status = 'active' ORDER BY day_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing active day progress: %w", err)
	}
	defer rows.Close()
	return scanDayProgressRows(rows)
}

// Update overwrites an existing row. Returns ErrNotFound if there is none.
func (r *SQLiteDayProgressRepo) Update(ctx context.Context, p *domain.DayProgress) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE day_progress
		SET status = ?, completion_pct = ?, started_at = ?, last_activity_at = ?
		WHERE user_id = ? AND day_id = ?`,
		string(p.Status), p.CompletionPct, nullableTimeToString(p.StartedAt), timeToString(p.LastActivityAt),
		p.UserID, p.DayID)
	if err != nil {
		return fmt.Errorf("updating day progress: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating day progress: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("day progress %s/%s: %w", p.UserID, p.DayID, ErrNotFound)
	}
	return nil
}

// Upsert inserts the row or, when (user_id, day_id) already exists, updates it
// in place. An existing started_at is never overwritten.
func (r *SQLiteDayProgressRepo) Upsert(ctx context.Context, p *domain.DayProgress) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO day_progress (`+dayProgressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, day_id) DO UPDATE SET
			status           = excluded.status,
			completion_pct   = excluded.completion_pct,
			started_at       = COALESCE(day_progress.started_at, excluded.started_at),
			last_activity_at = excluded.last_activity_at`,
		p.UserID, p.DayID, string(p.Status), p.CompletionPct,
		nullableTimeToString(p.StartedAt), timeToString(p.LastActivityAt))
	if err != nil {
		return fmt.Errorf("upserting day progress: %w", err)
	}
	return nil
}

func scanDayProgress(row rowScanner) (*domain.DayProgress, error) {
	var p domain.DayProgress
	var status, lastActivity string
	var startedAt sql.NullString
	if err := row.Scan(&p.UserID, &p.DayID, &status, &p.CompletionPct, &startedAt, &lastActivity); err != nil {
		return nil, notFound(err, "day progress")
	}

	var err error
	if p.Status, err = domain.ParseDayStatus(status); err != nil {
		return nil, fmt.Errorf("day progress %s/%s: %w", p.UserID, p.DayID, err)
	}
	if p.StartedAt, err = parseNullableTime(startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if p.LastActivityAt, err = time.Parse(timeLayout, lastActivity); err != nil {
		return nil, fmt.Errorf("parsing last_activity_at: %w", err)
	}
	return &p, nil
}

func scanDayProgressRows(rows *sql.Rows) ([]*domain.DayProgress, error) {
	var out []*domain.DayProgress
	for rows.Next() {
		p, err := scanDayProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating day progress: %w", err)
	}
	return out, nil
}
