package schedule

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

// In-memory fakes for the three store interfaces. The engine never notices
// the difference between these and the postgres-backed repository.

type fakeStores struct {
	shiftTypes []*domain.ShiftType
	templates  []*domain.WorkScheduleTemplate
	exceptions []*domain.TurnException
}

func (f *fakeStores) ShiftTypeByName(_ context.Context, name string) (*domain.ShiftType, error) {
	for _, st := range f.shiftTypes {
		if st.Name == name {
			return st, nil
		}
	}
	return nil, fmt.Errorf("shift type %q not found", name)
}

func (f *fakeStores) ShiftTypeByID(_ context.Context, id int64) (*domain.ShiftType, error) {
	for _, st := range f.shiftTypes {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, fmt.Errorf("shift type %d not found", id)
}

func (f *fakeStores) ActiveShiftTypes(_ context.Context) ([]*domain.ShiftType, error) {
	return f.shiftTypes, nil
}

func (f *fakeStores) PredefinedTemplates(_ context.Context) ([]*domain.WorkScheduleTemplate, error) {
	return f.templates, nil
}

func (f *fakeStores) TemplateByID(_ context.Context, id int64) (*domain.WorkScheduleTemplate, error) {
	for _, tpl := range f.templates {
		if tpl.ID == id {
			return tpl, nil
		}
	}
	return nil, fmt.Errorf("template %d not found", id)
}

func (f *fakeStores) TemplateByType(_ context.Context, t domain.TemplateType) (*domain.WorkScheduleTemplate, error) {
	for _, tpl := range f.templates {
		if tpl.Type == t {
			return tpl, nil
		}
	}
	return nil, fmt.Errorf("template of type %q not found", t)
}

func (f *fakeStores) ExceptionsForUserAndRange(_ context.Context, userID int64, start, end time.Time) ([]*domain.TurnException, error) {
	var out []*domain.TurnException
	for _, exc := range f.exceptions {
		if exc.UserID != userID {
			continue
		}
		if exc.Date.Before(start) || exc.Date.After(end) {
			continue
		}
		out = append(out, exc)
	}
	return out, nil
}

func clock(s string) *string { return &s }

func standardShiftTypes() []*domain.ShiftType {
	return []*domain.ShiftType{
		{ID: 1, Name: domain.ShiftMorning, StartTime: clock("06:00"), EndTime: clock("14:00"), ColorHex: "#FFD54F", IsActive: true},
		{ID: 2, Name: domain.ShiftAfternoon, StartTime: clock("14:00"), EndTime: clock("22:00"), ColorHex: "#4FC3F7", IsActive: true},
		{ID: 3, Name: domain.ShiftNight, StartTime: clock("22:00"), EndTime: clock("06:00"), ColorHex: "#7986CB", IsActive: true},
		{ID: 4, Name: domain.ShiftRest, ColorHex: "#A5D6A7", IsRestPeriod: true, IsActive: true},
	}
}

// fourTwoTemplate is the standard rotation: nine teams on an 18-day cycle,
// four days on, two off, phase step two.
func fourTwoTemplate() *domain.WorkScheduleTemplate {
	return &domain.WorkScheduleTemplate{
		ID:            1,
		Name:          "Rotazione 4-2",
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

func twoLineCustomTemplate() *domain.WorkScheduleTemplate {
	return &domain.WorkScheduleTemplate{
		ID:            2,
		Name:          "Presidio linee",
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

func newTestStores() *fakeStores {
	return &fakeStores{
		shiftTypes: standardShiftTypes(),
		templates:  []*domain.WorkScheduleTemplate{fourTwoTemplate(), twoLineCustomTemplate()},
	}
}

func newTestSnapshot(t *testing.T, stores *fakeStores) *Snapshot {
	t.Helper()
	registry := NewRegistry(stores, stores)
	require.NoError(t, registry.Refresh(context.Background()))
	snap, err := registry.Current(context.Background())
	require.NoError(t, err)
	return snap
}

func newTestGenerator(t *testing.T, stores *fakeStores, opts OverlayOptions) *Generator {
	t.Helper()
	registry := NewRegistry(stores, stores)
	require.NoError(t, registry.Refresh(context.Background()))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGenerator(registry, stores, logger, opts)
}

func dayOf(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
