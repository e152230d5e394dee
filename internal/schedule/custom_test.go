package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

func TestCustomProviderTableLookup(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	tpl := twoLineCustomTemplate()
	provider := &CustomProvider{}

	// One subtest per stored offset of the 4-day cycle.
	tests := []struct {
		day      int
		wantL1   string
		wantL2   string
		l1Rests  bool
		l2Rests  bool
	}{
		{day: 0, wantL1: domain.ShiftMorning, wantL2: domain.ShiftAfternoon},
		{day: 1, wantL1: domain.ShiftAfternoon, l2Rests: true},
		{day: 2, l1Rests: true, wantL2: domain.ShiftMorning},
		{day: 3, wantL1: domain.ShiftNight, wantL2: domain.ShiftNight},
	}

	for _, tt := range tests {
		date := tpl.ReferenceDate.AddDate(0, 0, tt.day)
		events, err := provider.EventsForDay(snap, tpl, date, "")
		require.NoError(t, err)
		require.Len(t, events, 2)

		byTeam := map[string]domain.WorkScheduleEvent{}
		for _, ev := range events {
			byTeam[ev.Team] = ev
		}

		l1 := byTeam["L1"]
		assert.Equal(t, tt.l1Rests, l1.IsRestPeriod, "day %d L1", tt.day)
		if !tt.l1Rests {
			require.NotNil(t, l1.ShiftType)
			assert.Equal(t, tt.wantL1, *l1.ShiftType, "day %d L1", tt.day)
		}

		l2 := byTeam["L2"]
		assert.Equal(t, tt.l2Rests, l2.IsRestPeriod, "day %d L2", tt.day)
		if !tt.l2Rests {
			require.NotNil(t, l2.ShiftType)
			assert.Equal(t, tt.wantL2, *l2.ShiftType, "day %d L2", tt.day)
		}
	}
}

func TestCustomProviderCycleWraps(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	tpl := twoLineCustomTemplate()
	provider := &CustomProvider{}

	// Day 6 is offset 2 of the 4-day cycle.
	events, err := provider.EventsForDay(snap, tpl, tpl.ReferenceDate.AddDate(0, 0, 6), "L1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].IsRestPeriod)
}

func TestCustomProviderTeamFilter(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	tpl := twoLineCustomTemplate()
	provider := &CustomProvider{}

	events, err := provider.EventsForDay(snap, tpl, tpl.ReferenceDate, "L2")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "L2", events[0].Team)
}

func TestCustomProviderMissingPattern(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	tpl := twoLineCustomTemplate()
	tpl.Patterns = tpl.Patterns[:3] // drop offset 3

	_, err := (&CustomProvider{}).EventsForDay(snap, tpl, tpl.ReferenceDate.AddDate(0, 0, 3), "")
	require.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestCustomProviderUnknownShiftType(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	tpl := twoLineCustomTemplate()
	tpl.Patterns[0].Assignments[0].ShiftType = "Fantasma"

	_, err := (&CustomProvider{}).EventsForDay(snap, tpl, tpl.ReferenceDate, "")
	require.ErrorIs(t, err, ErrShiftTypeNotFound)
}

func TestCustomValidateTemplate(t *testing.T) {
	provider := &CustomProvider{}

	tests := []struct {
		name    string
		mutate  func(tpl *domain.WorkScheduleTemplate)
		wantOK  bool
		wantErr string
	}{
		{
			name:   "demo template is valid",
			mutate: func(tpl *domain.WorkScheduleTemplate) {},
			wantOK: true,
		},
		{
			name:    "pattern count mismatch",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.Patterns = tpl.Patterns[:2] },
			wantErr: "patterns count must equal cycleDays",
		},
		{
			name:    "duplicate offset",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.Patterns[3].Offset = 0 },
			wantErr: "appears more than once",
		},
		{
			name:    "offset out of range",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.Patterns[3].Offset = 9 },
			wantErr: "outside 0..3",
		},
		{
			name: "team outside the roster",
			mutate: func(tpl *domain.WorkScheduleTemplate) {
				tpl.Patterns[0].Assignments[0].Team = "L3"
			},
			wantErr: "not in the template roster",
		},
		{
			name: "team assigned twice at one offset",
			mutate: func(tpl *domain.WorkScheduleTemplate) {
				tpl.Patterns[0].Assignments[1].Team = "L1"
			},
			wantErr: "assigned twice",
		},
		{
			name: "neither shift nor rest",
			mutate: func(tpl *domain.WorkScheduleTemplate) {
				tpl.Patterns[0].Assignments[0].ShiftType = ""
			},
			wantErr: "neither a shift type nor rest",
		},
		{
			name:    "missing reference date",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.ReferenceDate = time.Time{} },
			wantErr: "referenceDate is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := twoLineCustomTemplate()
			tt.mutate(tpl)
			res := provider.ValidateTemplate(tpl)
			if tt.wantOK {
				assert.True(t, res.OK(), "unexpected errors: %v", res.Errors)
				return
			}
			require.False(t, res.OK())
			assert.ErrorContains(t, res.Err(), tt.wantErr)
		})
	}
}
