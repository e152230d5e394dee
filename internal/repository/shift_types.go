package repository

import (
	"context"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

const shiftTypeColumns = `
	id, name, description, start_time, end_time, break_start, break_end,
	color_hex, is_rest_period, is_user_defined, is_active, created_at, version
`

func scanShiftType(scan func(dst ...any) error) (*domain.ShiftType, error) {
	st := &domain.ShiftType{}
	dst := []any{
		&st.ID, &st.Name, &st.Description, &st.StartTime, &st.EndTime,
		&st.BreakStart, &st.BreakEnd, &st.ColorHex, &st.IsRestPeriod,
		&st.IsUserDefined, &st.IsActive, &st.CreatedAt, &st.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}
	return st, nil
}

func (r *Repository) ShiftTypeByName(ctx context.Context, name string) (*domain.ShiftType, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `SELECT ` + shiftTypeColumns + ` FROM shift_types WHERE name = $1`
	return scanShiftType(r.dbpool.QueryRowContext(ctx, query, name).Scan)
}

func (r *Repository) ShiftTypeByID(ctx context.Context, id int64) (*domain.ShiftType, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `SELECT ` + shiftTypeColumns + ` FROM shift_types WHERE id = $1`
	return scanShiftType(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

func (r *Repository) ActiveShiftTypes(ctx context.Context) ([]*domain.ShiftType, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `SELECT ` + shiftTypeColumns + ` FROM shift_types WHERE is_active = true ORDER BY id`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]*domain.ShiftType, 0)
	for rows.Next() {
		st, err := scanShiftType(rows.Scan)
		if err != nil {
			return nil, err
		}
		types = append(types, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return types, nil
}

// AllShiftTypes returns active and deactivated types alike; name-uniqueness
// checks run against the full set.
func (r *Repository) AllShiftTypes(ctx context.Context) ([]*domain.ShiftType, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `SELECT ` + shiftTypeColumns + ` FROM shift_types ORDER BY id`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]*domain.ShiftType, 0)
	for rows.Next() {
		st, err := scanShiftType(rows.Scan)
		if err != nil {
			return nil, err
		}
		types = append(types, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return types, nil
}

func (r *Repository) ShiftTypeNameExists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	exists := false
	query := `SELECT EXISTS (SELECT 1 FROM shift_types WHERE name = $1)`
	if err := r.dbpool.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Repository) CreateShiftType(ctx context.Context, st *domain.ShiftType) error {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `
		INSERT INTO shift_types (name, description, start_time, end_time, break_start, break_end, color_hex, is_rest_period, is_user_defined)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, is_active, created_at, version
	`

	args := []any{
		st.Name, st.Description, st.StartTime, st.EndTime,
		st.BreakStart, st.BreakEnd, st.ColorHex, st.IsRestPeriod, st.IsUserDefined,
	}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.ID, &st.IsActive, &st.CreatedAt, &st.Version)
}

func (r *Repository) UpdateShiftType(ctx context.Context, st *domain.ShiftType) error {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `
		UPDATE shift_types
		SET
			name = $1,
			description = $2,
			start_time = $3,
			end_time = $4,
			break_start = $5,
			break_end = $6,
			color_hex = $7,
			is_active = $8,
			version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING version
	`

	args := []any{
		st.Name, st.Description, st.StartTime, st.EndTime,
		st.BreakStart, st.BreakEnd, st.ColorHex, st.IsActive,
		st.ID, st.Version,
	}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.Version)
}

// DeactivateShiftType is the soft delete; referenced types stay resolvable
// by the engine through historical templates and exceptions.
func (r *Repository) DeactivateShiftType(ctx context.Context, id int64) error {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `UPDATE shift_types SET is_active = false, version = version + 1 WHERE id = $1`
	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}
