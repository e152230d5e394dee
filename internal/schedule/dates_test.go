package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	in := time.Date(2025, time.July, 14, 0, 30, 0, 0, cet)

	// 00:30 CET is still 23:30 UTC of the previous day.
	assert.Equal(t, dayOf(2025, time.July, 13), NormalizeDate(in))
	assert.Equal(t, dayOf(2025, time.March, 3), NormalizeDate(dayOf(2025, time.March, 3)))
}

func TestCycleOffset(t *testing.T) {
	ref := dayOf(2024, time.January, 1)

	tests := []struct {
		name string
		date time.Time
		want int32
	}{
		{"reference day", ref, 0},
		{"one day later", ref.AddDate(0, 0, 1), 1},
		{"full cycle later", ref.AddDate(0, 0, 18), 0},
		{"mid cycle", ref.AddDate(0, 0, 25), 7},
		{"one day before reference", ref.AddDate(0, 0, -1), 17},
		{"one cycle before reference", ref.AddDate(0, 0, -18), 0},
		{"years before reference", dayOf(1999, time.December, 31), 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CycleOffset(tt.date, ref, 18)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, int32(0))
			assert.Less(t, got, int32(18))
		})
	}
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(dayOf(2024, time.February, 10))
	assert.Equal(t, dayOf(2024, time.February, 1), first)
	assert.Equal(t, dayOf(2024, time.February, 29), last) // leap year

	first, last = MonthBounds(dayOf(2025, time.December, 31))
	assert.Equal(t, dayOf(2025, time.December, 1), first)
	assert.Equal(t, dayOf(2025, time.December, 31), last)
}

func TestEpochDay(t *testing.T) {
	assert.Equal(t, int64(0), EpochDay(dayOf(1970, time.January, 1)))
	assert.Equal(t, int64(1), EpochDay(dayOf(1970, time.January, 2)))
	assert.Equal(t, int64(-1), EpochDay(dayOf(1969, time.December, 31)))
}
