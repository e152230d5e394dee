package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

func TestFixedProviderReferenceDay(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	tpl := fourTwoTemplate()
	provider := &FixedProvider{}

	events, err := provider.EventsForDay(snap, tpl, tpl.ReferenceDate, "A")
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	require.NotNil(t, ev.ShiftType)
	assert.Equal(t, domain.ShiftMorning, *ev.ShiftType)
	assert.False(t, ev.IsRestPeriod)
	assert.Equal(t, int32(480), ev.DurationMinutes)
	assert.Equal(t, domain.SourceBasePattern, ev.Source)
}

// Every day of the cycle must put exactly two teams on each of the three
// work shifts and leave three teams resting.
func TestFixedProviderContinuousCoverage(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	tpl := fourTwoTemplate()
	provider := &FixedProvider{}

	for d := 0; d < int(tpl.CycleDays); d++ {
		date := tpl.ReferenceDate.AddDate(0, 0, d)
		events, err := provider.EventsForDay(snap, tpl, date, "")
		require.NoError(t, err)
		require.Len(t, events, len(tpl.Teams))

		perShift := make(map[string]int)
		resting := 0
		seenTeams := make(map[string]bool)
		for _, ev := range events {
			assert.False(t, seenTeams[ev.Team], "team %s appears twice on day %d", ev.Team, d)
			seenTeams[ev.Team] = true

			if ev.IsRestPeriod {
				resting++
				continue
			}
			require.NotNil(t, ev.ShiftType)
			perShift[*ev.ShiftType]++
		}

		assert.Equal(t, 3, resting, "day %d", d)
		for _, shift := range tpl.WorkShifts {
			assert.Equal(t, 2, perShift[shift], "day %d shift %s", d, shift)
		}
	}
}

func TestFixedProviderPeriodicity(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	tpl := fourTwoTemplate()
	provider := &FixedProvider{}

	date := dayOf(2024, time.March, 15)
	first, err := provider.EventsForDay(snap, tpl, date, "")
	require.NoError(t, err)
	second, err := provider.EventsForDay(snap, tpl, date.AddDate(0, 0, int(tpl.CycleDays)), "")
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Team, second[i].Team)
		assert.Equal(t, first[i].IsRestPeriod, second[i].IsRestPeriod)
		if first[i].ShiftType != nil {
			require.NotNil(t, second[i].ShiftType)
			assert.Equal(t, *first[i].ShiftType, *second[i].ShiftType)
		}
	}
}

// Dates before the reference must land on a valid cycle position too.
func TestFixedProviderBeforeReferenceDate(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	tpl := fourTwoTemplate()
	provider := &FixedProvider{}

	events, err := provider.EventsForDay(snap, tpl, dayOf(2023, time.June, 10), "")
	require.NoError(t, err)
	require.Len(t, events, len(tpl.Teams))

	working := 0
	for _, ev := range events {
		if !ev.IsRestPeriod {
			working++
		}
	}
	assert.Equal(t, 6, working)
}

func TestFixedProviderUnknownShiftType(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	tpl := fourTwoTemplate()
	tpl.WorkShifts = []string{"Inesistente", domain.ShiftAfternoon, domain.ShiftNight}
	provider := &FixedProvider{}

	_, err := provider.EventsForDay(snap, tpl, tpl.ReferenceDate, "")
	require.ErrorIs(t, err, ErrShiftTypeNotFound)
}

func TestFixedValidateTemplate(t *testing.T) {
	provider := &FixedProvider{}

	tests := []struct {
		name    string
		mutate  func(tpl *domain.WorkScheduleTemplate)
		wantOK  bool
		wantErr string
	}{
		{
			name:   "standard rotation is valid",
			mutate: func(tpl *domain.WorkScheduleTemplate) {},
			wantOK: true,
		},
		{
			name:    "cycle length mismatch",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.CycleDays = 20 },
			wantErr: "cycleDays must equal",
		},
		{
			name:    "zero work days",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.WorkDays = 0 },
			wantErr: "workDays must be positive",
		},
		{
			name:    "zero phase step",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.PhaseStep = 0 },
			wantErr: "phaseStep must be positive",
		},
		{
			name:    "no work shifts",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.WorkShifts = nil },
			wantErr: "at least one work shift",
		},
		{
			name:    "duplicate team in roster",
			mutate:  func(tpl *domain.WorkScheduleTemplate) { tpl.Teams[1] = "A" },
			wantErr: "appears more than once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := fourTwoTemplate()
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

func TestFixedValidateTemplateUndersizedRosterWarns(t *testing.T) {
	tpl := fourTwoTemplate()
	tpl.Teams = tpl.Teams[:5]

	res := (&FixedProvider{}).ValidateTemplate(tpl)
	assert.True(t, res.OK())
	assert.NotEmpty(t, res.Warnings)
}
