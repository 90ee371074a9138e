package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/genstudio/genstudio/internal/model"
)

// Common errors for activity repository operations.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrNotOwner         = errors.New("activity belongs to another account")
	ErrInvalidActivity  = errors.New("invalid activity capability")
)

// RecordActivity inserts one activity record.
func (r *Repository) RecordActivity(ctx context.Context, record *model.ActivityRecord) error {
	if !record.Capability.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidActivity, record.Capability)
	}

	query := `
		INSERT INTO activities (id, user_id, capability, input_data, output_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		string(record.Capability),
		record.InputData,
		record.OutputData,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	return nil
}

// ListActivity returns an account's activity, most recent first.
func (r *Repository) ListActivity(ctx context.Context, accountID string) ([]*model.ActivityRecord, error) {
	query := `
		SELECT id, user_id, capability, input_data, output_data, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	records := make([]*model.ActivityRecord, 0)
	for rows.Next() {
		var rec model.ActivityRecord
		var capability string
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&capability,
			&rec.InputData,
			&rec.OutputData,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		rec.Capability = model.ActivityTag(capability)
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}

	return records, nil
}

// DeleteActivity removes an activity record owned by accountID.
// Returns ErrActivityNotFound if no such record exists and ErrNotOwner if it
// belongs to another account; in the latter case the row is left intact.
func (r *Repository) DeleteActivity(ctx context.Context, accountID, activityID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var ownerID string
	err = tx.QueryRow(ctx,
		`SELECT user_id FROM activities WHERE id = $1 FOR UPDATE`,
		activityID,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("failed to load activity owner: %w", err)
	}

	if ownerID != accountID {
		return ErrNotOwner
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM activities WHERE id = $1 AND user_id = $2`,
		activityID, accountID,
	); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit activity delete: %w", err)
	}

	return nil
}
