package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thinktwice-app/thinktwice/internal/common"
	"github.com/thinktwice-app/thinktwice/internal/model"
)

// SaveImpulse inserts a new impulse into the log.
func (s *SQLiteStorage) SaveImpulse(ctx context.Context, impulse *model.Impulse) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateImpulse(impulse); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO impulses (
			id, title, category, price, emotion, urgency,
			created_at, review_at, status, executed_at, final_feeling, regret_rating
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		impulse.ID, impulse.Title, string(impulse.Category), impulse.Price,
		string(impulse.Emotion), string(impulse.Urgency),
		impulse.CreatedAt, impulse.ReviewAt, string(impulse.Status),
		impulse.ExecutedAt, string(impulse.FinalFeeling), impulse.RegretRating,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save impulse: %v", common.ErrStorageWrite, err)
	}

	return nil
}

// GetImpulse fetches a single impulse by ID.
func (s *SQLiteStorage) GetImpulse(ctx context.Context, id string) (*model.Impulse, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, category, price, emotion, urgency,
		       created_at, review_at, status, executed_at, final_feeling, regret_rating
		FROM impulses WHERE id = ?
	`, id)

	impulse, err := scanImpulse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: impulse %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get impulse: %v", common.ErrStorageRead, err)
	}

	return impulse, nil
}

// ListImpulses returns the full snapshot of the impulse log ordered by
// creation time. The analytics engines always consume complete
// snapshots; there is no incremental read path.
func (s *SQLiteStorage) ListImpulses(ctx context.Context) ([]model.Impulse, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, category, price, emotion, urgency,
		       created_at, review_at, status, executed_at, final_feeling, regret_rating
		FROM impulses ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list impulses: %v", common.ErrStorageRead, err)
	}
	defer func() { _ = rows.Close() }()

	var impulses []model.Impulse
	for rows.Next() {
		impulse, err := scanImpulse(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan impulse: %v", common.ErrStorageRead, err)
		}
		impulses = append(impulses, *impulse)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: impulse iteration failed: %v", common.ErrStorageRead, err)
	}

	return impulses, nil
}

// UpdateImpulseStatus performs the one-way decision transition on a
// LOCKED impulse. The status invariant is enforced here: only
// LOCKED -> CANCELLED and LOCKED -> EXECUTED are legal, each at most once.
func (s *SQLiteStorage) UpdateImpulseStatus(ctx context.Context, id string, status model.ImpulseStatus, decidedAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if status != model.StatusCancelled && status != model.StatusExecuted {
		return fmt.Errorf("%w: cannot transition to %s", common.ErrInvalidTransition, status)
	}

	var executedAt *time.Time
	if status == model.StatusExecuted {
		executedAt = &decidedAt
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE impulses SET status = ?, executed_at = ?
		WHERE id = ? AND status = ?
	`, string(status), executedAt, id, string(model.StatusLocked))
	if err != nil {
		return fmt.Errorf("%w: failed to update status: %v", common.ErrStorageWrite, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to check update: %v", common.ErrStorageWrite, err)
	}
	if affected == 0 {
		// Either the impulse does not exist or it already left LOCKED.
		if _, getErr := s.GetImpulse(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: impulse %s is no longer LOCKED", common.ErrInvalidTransition, id)
	}

	return nil
}

// RecordFollowUp attaches post-purchase feedback to an EXECUTED
// impulse. Follow-up is an independent, asynchronous write; it never
// touches the status or executed_at columns.
func (s *SQLiteStorage) RecordFollowUp(ctx context.Context, id string, feeling model.FinalFeeling, regretRating *int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateRating(regretRating); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE impulses SET final_feeling = ?, regret_rating = ?
		WHERE id = ? AND status = ?
	`, string(feeling), regretRating, id, string(model.StatusExecuted))
	if err != nil {
		return fmt.Errorf("%w: failed to record follow-up: %v", common.ErrStorageWrite, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to check follow-up: %v", common.ErrStorageWrite, err)
	}
	if affected == 0 {
		if _, getErr := s.GetImpulse(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: impulse %s", common.ErrNotExecuted, id)
	}

	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanImpulse.
type scanner interface {
	Scan(dest ...any) error
}

func scanImpulse(row scanner) (*model.Impulse, error) {
	var (
		impulse      model.Impulse
		category     string
		emotion      string
		urgency      string
		status       string
		finalFeeling string
		price        sql.NullFloat64
		executedAt   sql.NullTime
		regretRating sql.NullInt64
	)

	err := row.Scan(
		&impulse.ID, &impulse.Title, &category, &price, &emotion, &urgency,
		&impulse.CreatedAt, &impulse.ReviewAt, &status, &executedAt,
		&finalFeeling, &regretRating,
	)
	if err != nil {
		return nil, err
	}

	impulse.Category = model.ImpulseCategory(category)
	impulse.Emotion = model.Emotion(emotion)
	impulse.Urgency = model.Urgency(urgency)
	impulse.Status = model.ImpulseStatus(status)
	impulse.FinalFeeling = model.FinalFeeling(finalFeeling)

	if price.Valid {
		p := price.Float64
		impulse.Price = &p
	}
	if executedAt.Valid {
		t := executedAt.Time
		impulse.ExecutedAt = &t
	}
	if regretRating.Valid {
		r := int(regretRating.Int64)
		impulse.RegretRating = &r
	}

	return &impulse, nil
}
