package repository

import (
	"context"
	"database/sql"
	"sort"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

func scanTemplateRow(scan func(dst ...any) error) (*domain.WorkScheduleTemplate, error) {
	tpl := &domain.WorkScheduleTemplate{}
	dst := []any{
		&tpl.ID, &tpl.Name, &tpl.Description, &tpl.Type, &tpl.CycleDays,
		&tpl.ReferenceDate, &tpl.PhaseStep, &tpl.WorkDays, &tpl.RestDays,
		&tpl.IsPredefined, &tpl.CreatedAt, &tpl.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}
	tpl.ReferenceDate = tpl.ReferenceDate.UTC()
	return tpl, nil
}

const templateColumns = `
	id, name, description, type, cycle_days, reference_date, phase_step,
	work_days, rest_days, is_predefined, created_at, version
`

func (r *Repository) PredefinedTemplates(ctx context.Context) ([]*domain.WorkScheduleTemplate, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `SELECT ` + templateColumns + ` FROM work_schedule_templates WHERE is_predefined = true ORDER BY id`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]*domain.WorkScheduleTemplate, 0)
	for rows.Next() {
		tpl, err := scanTemplateRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, tpl := range templates {
		if err := r.loadTemplateChildren(ctx, tpl); err != nil {
			return nil, err
		}
	}

	return templates, nil
}

func (r *Repository) TemplateByID(ctx context.Context, id int64) (*domain.WorkScheduleTemplate, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `SELECT ` + templateColumns + ` FROM work_schedule_templates WHERE id = $1`
	tpl, err := scanTemplateRow(r.dbpool.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		return nil, err
	}

	if err := r.loadTemplateChildren(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (r *Repository) TemplateByType(ctx context.Context, t domain.TemplateType) (*domain.WorkScheduleTemplate, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	query := `SELECT ` + templateColumns + ` FROM work_schedule_templates WHERE type = $1 AND is_predefined = true ORDER BY id LIMIT 1`
	tpl, err := scanTemplateRow(r.dbpool.QueryRowContext(ctx, query, string(t)).Scan)
	if err != nil {
		return nil, err
	}

	if err := r.loadTemplateChildren(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// loadTemplateChildren fills the roster, the FIXED work-shift sequence and
// the CUSTOM day patterns from their child tables.
func (r *Repository) loadTemplateChildren(ctx context.Context, tpl *domain.WorkScheduleTemplate) error {
	query := `SELECT team FROM template_teams WHERE template_id = $1 ORDER BY position`
	rows, err := r.dbpool.QueryContext(ctx, query, tpl.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	tpl.Teams = make([]string, 0)
	for rows.Next() {
		var team string
		if err := rows.Scan(&team); err != nil {
			return err
		}
		tpl.Teams = append(tpl.Teams, team)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	query = `SELECT shift_type_name FROM template_work_shifts WHERE template_id = $1 ORDER BY position`
	rows, err = r.dbpool.QueryContext(ctx, query, tpl.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	tpl.WorkShifts = make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		tpl.WorkShifts = append(tpl.WorkShifts, name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if tpl.Type != domain.TemplateCustom {
		return nil
	}

	query = `
		SELECT day_offset, team, shift_type_name, is_rest
		FROM template_day_patterns
		WHERE template_id = $1
		ORDER BY day_offset, team
	`
	rows, err = r.dbpool.QueryContext(ctx, query, tpl.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	patternsMap := make(map[int32]*domain.DayPattern)
	for rows.Next() {
		var row struct {
			Offset    int32
			Team      string
			ShiftType sql.NullString
			IsRest    bool
		}
		if err := rows.Scan(&row.Offset, &row.Team, &row.ShiftType, &row.IsRest); err != nil {
			return err
		}

		pattern, exists := patternsMap[row.Offset]
		if !exists {
			pattern = &domain.DayPattern{Offset: row.Offset}
			patternsMap[row.Offset] = pattern
		}
		pattern.Assignments = append(pattern.Assignments, domain.TeamShiftAssignment{
			Team:      row.Team,
			ShiftType: row.ShiftType.String,
			Rest:      row.IsRest,
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tpl.Patterns = make([]domain.DayPattern, 0, len(patternsMap))
	for _, pattern := range patternsMap {
		tpl.Patterns = append(tpl.Patterns, *pattern)
	}
	sort.Slice(tpl.Patterns, func(i, j int) bool {
		return tpl.Patterns[i].Offset < tpl.Patterns[j].Offset
	})

	return nil
}

func (r *Repository) CreateTemplate(ctx context.Context, tpl *domain.WorkScheduleTemplate) error {
	ctx, cancel := r.txCtx(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO work_schedule_templates (name, description, type, cycle_days, reference_date, phase_step, work_days, rest_days, is_predefined)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, version
	`
	args := []any{
		tpl.Name, tpl.Description, string(tpl.Type), tpl.CycleDays, tpl.ReferenceDate,
		tpl.PhaseStep, tpl.WorkDays, tpl.RestDays, tpl.IsPredefined,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.Version); err != nil {
		return err
	}

	for i, team := range tpl.Teams {
		query = `INSERT INTO template_teams (template_id, position, team) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, query, tpl.ID, i, team); err != nil {
			return err
		}
	}

	for i, name := range tpl.WorkShifts {
		query = `INSERT INTO template_work_shifts (template_id, position, shift_type_name) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, query, tpl.ID, i, name); err != nil {
			return err
		}
	}

	for _, pattern := range tpl.Patterns {
		for _, a := range pattern.Assignments {
			var shiftType *string
			if !a.Rest {
				shiftType = &a.ShiftType
			}
			query = `
				INSERT INTO template_day_patterns (template_id, day_offset, team, shift_type_name, is_rest)
				VALUES ($1, $2, $3, $4, $5)
			`
			if _, err := tx.ExecContext(ctx, query, tpl.ID, pattern.Offset, a.Team, shiftType, a.Rest); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
