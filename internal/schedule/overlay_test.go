package schedule

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func baseWeek(team string) []domain.WorkScheduleEvent {
	morning := domain.ShiftMorning
	events := make([]domain.WorkScheduleEvent, 7)
	for i := range events {
		events[i] = domain.WorkScheduleEvent{
			Date:            dayOf(2025, time.March, 3+i),
			Team:            team,
			ShiftType:       &morning,
			DurationMinutes: 480,
			Source:          domain.SourceBasePattern,
		}
	}
	return events
}

func TestOverlayAbsenceNullsShift(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	base := baseWeek("A")
	repl := domain.ShiftNight

	exc := &domain.TurnException{
		ID:     1,
		UserID: 7,
		Date:   dayOf(2025, time.March, 5),
		Type:   domain.ExceptionVacation,
		Status: domain.ExceptionActive,
		// A replacement on an absence type must be ignored.
		ReplacementShiftType: &repl,
		OriginalShiftType:    domain.ShiftMorning,
	}

	merged := OverlayExceptions(discardLogger(), snap, base, []*domain.TurnException{exc}, OverlayOptions{})
	require.Len(t, merged, len(base))

	day := merged[2]
	assert.Nil(t, day.ShiftType)
	assert.True(t, day.IsRestPeriod)
	assert.Equal(t, domain.SourceExceptionOverride, day.Source)
	require.NotNil(t, day.ExceptionType)
	assert.Equal(t, domain.ExceptionVacation, *day.ExceptionType)
}

func TestOverlayReplacementShift(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	base := baseWeek("A")
	repl := domain.ShiftNight

	exc := &domain.TurnException{
		ID:                   2,
		Date:                 dayOf(2025, time.March, 4),
		Type:                 domain.ExceptionShiftSwap,
		Status:               domain.ExceptionActive,
		ReplacementShiftType: &repl,
		OriginalShiftType:    domain.ShiftMorning,
	}

	merged := OverlayExceptions(discardLogger(), snap, base, []*domain.TurnException{exc}, OverlayOptions{})
	day := merged[1]
	require.NotNil(t, day.ShiftType)
	assert.Equal(t, domain.ShiftNight, *day.ShiftType)
	assert.Equal(t, int32(480), day.DurationMinutes)
	assert.Equal(t, domain.SourceExceptionOverride, day.Source)
}

func TestOverlayStatusFiltering(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())

	tests := []struct {
		status          domain.ExceptionStatus
		includeApproved bool
		wantApplied     bool
	}{
		{domain.ExceptionActive, false, true},
		{domain.ExceptionActive, true, true},
		{domain.ExceptionApproved, true, true},
		{domain.ExceptionApproved, false, false},
		{domain.ExceptionPending, true, false},
		{domain.ExceptionRejected, true, false},
		{domain.ExceptionCancelled, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			base := baseWeek("A")
			exc := &domain.TurnException{
				Date:   base[0].Date,
				Type:   domain.ExceptionSickLeave,
				Status: tt.status,
			}

			merged := OverlayExceptions(discardLogger(), snap, base, []*domain.TurnException{exc}, OverlayOptions{IncludeApproved: tt.includeApproved})
			if tt.wantApplied {
				assert.Equal(t, domain.SourceExceptionOverride, merged[0].Source)
			} else {
				assert.Equal(t, domain.SourceBasePattern, merged[0].Source)
			}
		})
	}
}

func TestOverlayMalformedRecordsKeepBase(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())

	tests := []struct {
		name string
		exc  *domain.TurnException
	}{
		{
			name: "unknown exception type",
			exc: &domain.TurnException{
				Date:   dayOf(2025, time.March, 3),
				Type:   domain.ExceptionType("FERRAGOSTO"),
				Status: domain.ExceptionActive,
			},
		},
		{
			name: "no effective shift",
			exc: &domain.TurnException{
				Date:   dayOf(2025, time.March, 3),
				Type:   domain.ExceptionOvertime,
				Status: domain.ExceptionActive,
			},
		},
		{
			name: "unresolvable replacement",
			exc: &domain.TurnException{
				Date:                 dayOf(2025, time.March, 3),
				Type:                 domain.ExceptionOvertime,
				Status:               domain.ExceptionActive,
				ReplacementShiftType: clock("Fantasma"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := baseWeek("A")
			merged := OverlayExceptions(discardLogger(), snap, base, []*domain.TurnException{tt.exc}, OverlayOptions{})
			assert.Equal(t, base[0], merged[0])
		})
	}
}

func TestOverlayDuplicateDayKeepsFirst(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	base := baseWeek("A")
	date := dayOf(2025, time.March, 6)

	first := &domain.TurnException{ID: 10, Date: date, Type: domain.ExceptionVacation, Status: domain.ExceptionActive}
	second := &domain.TurnException{ID: 11, Date: date, Type: domain.ExceptionTraining, Status: domain.ExceptionActive, OriginalShiftType: domain.ShiftNight}

	merged := OverlayExceptions(discardLogger(), snap, base, []*domain.TurnException{first, second}, OverlayOptions{})
	day := merged[3]
	require.NotNil(t, day.ExceptionType)
	assert.Equal(t, domain.ExceptionVacation, *day.ExceptionType)
}

// The overlay returns a fresh slice; regenerating without the exception
// must reproduce the base pattern untouched.
func TestOverlayDoesNotMutateBase(t *testing.T) {
	snap := newTestSnapshot(t, newTestStores())
	base := baseWeek("A")
	snapshotBefore := make([]domain.WorkScheduleEvent, len(base))
	copy(snapshotBefore, base)

	exc := &domain.TurnException{
		Date:   base[0].Date,
		Type:   domain.ExceptionVacation,
		Status: domain.ExceptionActive,
	}
	merged := OverlayExceptions(discardLogger(), snap, base, []*domain.TurnException{exc}, OverlayOptions{})

	assert.Equal(t, snapshotBefore, base)
	assert.NotEqual(t, base[0], merged[0])
}
