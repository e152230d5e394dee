package repository

import (
	"context"
	"time"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

const exceptionColumns = `
	id, user_id, exception_date, exception_type, original_shift_type,
	replacement_shift_type, status, note, created_at, modified_at, version
`

func scanException(scan func(dst ...any) error) (*domain.TurnException, error) {
	exc := &domain.TurnException{}
	dst := []any{
		&exc.ID, &exc.UserID, &exc.Date, &exc.Type, &exc.OriginalShiftType,
		&exc.ReplacementShiftType, &exc.Status, &exc.Note,
		&exc.CreatedAt, &exc.ModifiedAt, &exc.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}
	exc.Date = exc.Date.UTC()
	return exc, nil
}

// ExceptionsForUserAndRange is the one batched lookup a generation call
// performs; the engine never queries per day.
func (r *Repository) ExceptionsForUserAndRange(ctx context.Context, userID int64, start, end time.Time) ([]*domain.TurnException, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `
		SELECT ` + exceptionColumns + `
		FROM turn_exceptions
		WHERE user_id = $1 AND exception_date BETWEEN $2 AND $3
		ORDER BY exception_date
	`

	rows, err := r.dbpool.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exceptions := make([]*domain.TurnException, 0)
	for rows.Next() {
		exc, err := scanException(rows.Scan)
		if err != nil {
			return nil, err
		}
		exceptions = append(exceptions, exc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exceptions, nil
}

func (r *Repository) ExceptionByID(ctx context.Context, id int64) (*domain.TurnException, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `SELECT ` + exceptionColumns + ` FROM turn_exceptions WHERE id = $1`
	return scanException(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

func (r *Repository) CreateException(ctx context.Context, exc *domain.TurnException) error {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `
		INSERT INTO turn_exceptions (user_id, exception_date, exception_type, original_shift_type, replacement_shift_type, status, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, modified_at, version
	`

	args := []any{
		exc.UserID, exc.Date, string(exc.Type), exc.OriginalShiftType,
		exc.ReplacementShiftType, string(exc.Status), exc.Note,
	}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&exc.ID, &exc.CreatedAt, &exc.ModifiedAt, &exc.Version)
}

// UpdateException replaces the mutable fields and bumps modified_at; the
// optimistic version guard makes a lost update surface as sql.ErrNoRows.
func (r *Repository) UpdateException(ctx context.Context, exc *domain.TurnException) error {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `
		UPDATE turn_exceptions
		SET
			exception_type = $1,
			replacement_shift_type = $2,
			status = $3,
			note = $4,
			modified_at = now(),
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING modified_at, version
	`

	args := []any{
		string(exc.Type), exc.ReplacementShiftType, string(exc.Status),
		exc.Note, exc.ID, exc.Version,
	}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&exc.ModifiedAt, &exc.Version)
}
