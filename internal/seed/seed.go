package seed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
	"github.com/quattrodue/shift-planner/backend/internal/repository"
)

func clock(s string) *string { return &s }

// PredefinedShiftTypes returns the four built-in shift types of the standard
// rotation. They are seeded once and never modified afterwards.
func PredefinedShiftTypes() []*domain.ShiftType {
	return []*domain.ShiftType{
		{
			Name:        domain.ShiftMorning,
			Description: "Turno del mattino",
			StartTime:   clock("06:00"),
			EndTime:     clock("14:00"),
			ColorHex:    "#FFD54F",
			IsActive:    true,
		},
		{
			Name:        domain.ShiftAfternoon,
			Description: "Turno del pomeriggio",
			StartTime:   clock("14:00"),
			EndTime:     clock("22:00"),
			ColorHex:    "#4FC3F7",
			IsActive:    true,
		},
		{
			Name:        domain.ShiftNight,
			Description: "Turno di notte",
			StartTime:   clock("22:00"),
			EndTime:     clock("06:00"),
			ColorHex:    "#7986CB",
			IsActive:    true,
		},
		{
			Name:         domain.ShiftRest,
			Description:  "Giornata di riposo",
			ColorHex:     "#A5D6A7",
			IsRestPeriod: true,
			IsActive:     true,
		},
	}
}

// PredefinedFixedTemplate is the standard 4-on/2-off rotation: nine teams,
// an 18-day cycle and a phase step of two days, which keeps exactly two
// teams on every work shift each day.
func PredefinedFixedTemplate() *domain.WorkScheduleTemplate {
	return &domain.WorkScheduleTemplate{
		Name:          "Rotazione 4-2",
		Description:   "Rotazione continua a nove squadre: quattro giorni di lavoro, due di riposo",
		Type:          domain.TemplateFixed,
		CycleDays:     18,
		ReferenceDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Teams:         []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"},
		PhaseStep:     2,
		WorkDays:      4,
		RestDays:      2,
		WorkShifts:    []string{domain.ShiftMorning, domain.ShiftAfternoon, domain.ShiftNight},
		IsPredefined:  true,
	}
}

// DemoCustomTemplate is a small table-driven cycle used to exercise the
// CUSTOM lookup path: two lines alternating day coverage over four days.
func DemoCustomTemplate() *domain.WorkScheduleTemplate {
	return &domain.WorkScheduleTemplate{
		Name:          "Presidio linee",
		Description:   "Ciclo dimostrativo a due linee su quattro giorni",
		Type:          domain.TemplateCustom,
		CycleDays:     4,
		ReferenceDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Teams:         []string{"L1", "L2"},
		Patterns: []domain.DayPattern{
			{Offset: 0, Assignments: []domain.TeamShiftAssignment{
				{Team: "L1", ShiftType: domain.ShiftMorning},
				{Team: "L2", ShiftType: domain.ShiftAfternoon},
			}},
			{Offset: 1, Assignments: []domain.TeamShiftAssignment{
				{Team: "L1", ShiftType: domain.ShiftAfternoon},
				{Team: "L2", Rest: true},
			}},
			{Offset: 2, Assignments: []domain.TeamShiftAssignment{
				{Team: "L1", Rest: true},
				{Team: "L2", ShiftType: domain.ShiftMorning},
			}},
			{Offset: 3, Assignments: []domain.TeamShiftAssignment{
				{Team: "L1", ShiftType: domain.ShiftNight},
				{Team: "L2", ShiftType: domain.ShiftNight},
			}},
		},
		IsPredefined: true,
	}
}

// SeedPredefined inserts the built-in shift types and templates. Rows that
// already exist are skipped, so the seed is safe to run repeatedly.
func SeedPredefined(ctx context.Context, repo *repository.Repository) {
	for _, st := range PredefinedShiftTypes() {
		if err := repo.CreateShiftType(ctx, st); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_types_name_key" {
				slog.Info("shift type already seeded", "name", st.Name)
				continue
			}
			slog.Error("seeding shift type failed", "name", st.Name, "error", err)
			return
		}
		slog.Info("shift type seeded", "name", st.Name)
	}

	for _, tpl := range []*domain.WorkScheduleTemplate{PredefinedFixedTemplate(), DemoCustomTemplate()} {
		if err := repo.CreateTemplate(ctx, tpl); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.ConstraintName == "work_schedule_templates_name_key" {
				slog.Info("template already seeded", "name", tpl.Name)
				continue
			}
			slog.Error("seeding template failed", "name", tpl.Name, "error", err)
			return
		}
		slog.Info("template seeded", "name", tpl.Name)
	}
}
