package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

func clock(s string) *string { return &s }

func validShiftType() *domain.ShiftType {
	return &domain.ShiftType{
		Name:      "Serale",
		StartTime: clock("18:00"),
		EndTime:   clock("23:00"),
		ColorHex:  "#AB12CD",
	}
}

func TestShiftTypeRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(st *domain.ShiftType)
		wantErr  string
		wantWarn bool
	}{
		{
			name:   "valid shift",
			mutate: func(st *domain.ShiftType) {},
		},
		{
			name:    "missing name",
			mutate:  func(st *domain.ShiftType) { st.Name = "   " },
			wantErr: "name is required",
		},
		{
			name:    "name too long",
			mutate:  func(st *domain.ShiftType) { st.Name = strings.Repeat("a", 51) },
			wantErr: "at most 50 characters",
		},
		{
			name:    "missing color",
			mutate:  func(st *domain.ShiftType) { st.ColorHex = "" },
			wantErr: "colorHex is required",
		},
		{
			name:    "bad color",
			mutate:  func(st *domain.ShiftType) { st.ColorHex = "blue" },
			wantErr: "not a valid hex color",
		},
		{
			name:    "missing end time",
			mutate:  func(st *domain.ShiftType) { st.EndTime = nil },
			wantErr: "require both start and end times",
		},
		{
			name:    "unparseable time",
			mutate:  func(st *domain.ShiftType) { st.StartTime = clock("25:99") },
			wantErr: "not a valid HH:MM time",
		},
		{
			name: "too short",
			mutate: func(st *domain.ShiftType) {
				st.StartTime, st.EndTime = clock("10:00"), clock("10:15")
			},
			wantErr: "between 30 and 1440 minutes",
		},
		{
			name: "short shift warns",
			mutate: func(st *domain.ShiftType) {
				st.StartTime, st.EndTime = clock("10:00"), clock("10:45")
			},
			wantWarn: true,
		},
		{
			name: "long shift warns",
			mutate: func(st *domain.ShiftType) {
				st.StartTime, st.EndTime = clock("06:00"), clock("20:00")
			},
			wantWarn: true,
		},
		{
			name:    "half break window",
			mutate:  func(st *domain.ShiftType) { st.BreakStart = clock("20:00") },
			wantErr: "both breakStart and breakEnd",
		},
		{
			name: "inverted break window",
			mutate: func(st *domain.ShiftType) {
				st.BreakStart, st.BreakEnd = clock("21:00"), clock("20:00")
			},
			wantErr: "breakStart must be before breakEnd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := validShiftType()
			tt.mutate(st)
			res := ShiftType(st)

			if tt.wantErr != "" {
				require.False(t, res.OK())
				assert.ErrorContains(t, res.Err(), tt.wantErr)
				return
			}
			assert.True(t, res.OK(), "unexpected errors: %v", res.Errors)
			if tt.wantWarn {
				assert.NotEmpty(t, res.Warnings)
			}
		})
	}
}

func TestShiftTypeRestPeriod(t *testing.T) {
	rest := &domain.ShiftType{Name: "Riposo", ColorHex: "#A5D6A7", IsRestPeriod: true}
	res := ShiftType(rest)
	assert.True(t, res.OK())
	assert.Empty(t, res.Warnings)

	rest.StartTime = clock("08:00")
	res = ShiftType(rest)
	assert.True(t, res.OK())
	assert.NotEmpty(t, res.Warnings, "times on a rest period should warn")
}

// Overnight shifts wrap past midnight and keep a positive duration.
func TestShiftTypeOvernight(t *testing.T) {
	st := validShiftType()
	st.StartTime, st.EndTime = clock("22:00"), clock("06:00")

	res := ShiftType(st)
	assert.True(t, res.OK(), "unexpected errors: %v", res.Errors)
	assert.Equal(t, int32(480), st.DurationMinutes())
}

func TestTemplateRules(t *testing.T) {
	valid := func() *domain.WorkScheduleTemplate {
		return &domain.WorkScheduleTemplate{
			Name:          "Rotazione",
			Type:          domain.TemplateFixed,
			CycleDays:     18,
			ReferenceDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			Teams:         []string{"A", "B"},
		}
	}

	tests := []struct {
		name     string
		mutate   func(tpl *domain.WorkScheduleTemplate)
		wantErr  string
		wantWarn bool
	}{
		{name: "valid", mutate: func(tpl *domain.WorkScheduleTemplate) {}},
		{
			name:    "missing name",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "bad type",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.Type = "ROTATING" },
			wantErr: "must be FIXED or CUSTOM",
		},
		{
			name:    "non-positive cycle",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.CycleDays = 0 },
			wantErr: "cycleDays must be positive",
		},
		{
			name:     "very long cycle warns",
			mutate:   func(tpl *domain.WorkScheduleTemplate) { tpl.CycleDays = 400 },
			wantWarn: true,
		},
		{
			name:    "no teams",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.Teams = nil },
			wantErr: "at least one team",
		},
		{
			name:    "empty team name",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.Teams = []string{"A", ""} },
			wantErr: "must not be empty",
		},
		{
			name:    "duplicate team",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.Teams = []string{"A", "A"} },
			wantErr: "more than once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := valid()
			tt.mutate(tpl)
			res := Template(tpl)

			if tt.wantErr != "" {
				require.False(t, res.OK())
				assert.ErrorContains(t, res.Err(), tt.wantErr)
				return
			}
			assert.True(t, res.OK(), "unexpected errors: %v", res.Errors)
			if tt.wantWarn {
				assert.NotEmpty(t, res.Warnings)
			}
		})
	}
}
