package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/staircase/internal/db"
	"github.com/alexanderramin/staircase/internal/domain"
)

// SQLiteClosureRepo implements ClosureRepo using a SQLite database.
type SQLiteClosureRepo struct {
	db db.DBTX
}

// NewSQLiteClosureRepo creates a new SQLiteClosureRepo.
func NewSQLiteClosureRepo(conn db.DBTX) *SQLiteClosureRepo {
	return &SQLiteClosureRepo{db: conn}
}

func (r *SQLiteClosureRepo) GetActionProgress(ctx context.Context, userID, actionID string) (*domain.ClosureActionProgress, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, action_id, status, done_at FROM closure_action_progress
		WHERE user_id = ? AND action_id = ?`, userID, actionID)
	return scanActionProgress(row)
}

func (r *SQLiteClosureRepo) ListActionProgress(ctx context.Context, userID string) ([]*domain.ClosureActionProgress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, action_id, status, done_at FROM closure_action_progress
		WHERE user_id = ? ORDER BY action_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing closure action progress: %w", err)
	}
	defer rows.Close()

	var out []*domain.ClosureActionProgress
	for rows.Next() {
		p, err := scanActionProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating closure action progress: %w", err)
	}
	return out, nil
}

func (r *SQLiteClosureRepo) UpsertActionProgress(ctx context.Context, p *domain.ClosureActionProgress) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO closure_action_progress (user_id, action_id, status, done_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, action_id) DO UPDATE SET
			status  = excluded.status,
			done_at = excluded.done_at`,
		p.UserID, p.ActionID, string(p.Status), nullableTimeToString(p.DoneAt))
	if err != nil {
		return fmt.Errorf("upserting closure action progress: %w", err)
	}
	return nil
}

func (r *SQLiteClosureRepo) GetTrackRecord(ctx context.Context, userID string) (*domain.ClosureTrackRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, signed_at, safety_check, next_stage_unlocked_at, updated_at
		FROM closure_track_records WHERE user_id = ?`, userID)

	var rec domain.ClosureTrackRecord
	var signedAt, unlockedAt sql.NullString
	var safety, updatedAt string
	if err := row.Scan(&rec.UserID, &signedAt, &safety, &unlockedAt, &updatedAt); err != nil {
		return nil, notFound(err, "closure track record")
	}

	var err error
	if rec.SignedAt, err = parseNullableTime(signedAt); err != nil {
		return nil, fmt.Errorf("parsing signed_at: %w", err)
	}
	if rec.NextStageUnlockedAt, err = parseNullableTime(unlockedAt); err != nil {
		return nil, fmt.Errorf("parsing next_stage_unlocked_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	if rec.SafetyCheck, err = domain.ParseSafetyCheckResult(safety); err != nil {
		return nil, fmt.Errorf("closure track record %s: %w", rec.UserID, err)
	}
	return &rec, nil
}

func (r *SQLiteClosureRepo) UpsertTrackRecord(ctx context.Context, rec *domain.ClosureTrackRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO closure_track_records (user_id, signed_at, safety_check, next_stage_unlocked_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			signed_at              = excluded.signed_at,
			safety_check           = excluded.safety_check,
			next_stage_unlocked_at = excluded.next_stage_unlocked_at,
			updated_at             = excluded.updated_at`,
		rec.UserID, nullableTimeToString(rec.SignedAt), string(rec.SafetyCheck),
		nullableTimeToString(rec.NextStageUnlockedAt), timeToString(rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upserting closure track record: %w", err)
	}
	return nil
}

func scanActionProgress(row rowScanner) (*domain.ClosureActionProgress, error) {
	var p domain.ClosureActionProgress
	var status string
	var doneAt sql.NullString
	if err := row.Scan(&p.UserID, &p.ActionID, &status, &doneAt); err != nil {
		return nil, notFound(err, "closure action progress")
	}
	var err error
	if p.Status, err = domain.ParseActionStatus(status); err != nil {
		return nil, fmt.Errorf("closure action progress %s/%s: %w", p.UserID, p.ActionID, err)
	}
	if p.DoneAt, err = parseNullableTime(doneAt); err != nil {
		return nil, fmt.Errorf("parsing done_at: %w", err)
	}
	return &p, nil
}
