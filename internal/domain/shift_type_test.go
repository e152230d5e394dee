package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clock(s string) *string { return &s }

func TestDurationMinutes(t *testing.T) {
	tests := []struct {
		name string
		st   ShiftType
		want int32
	}{
		{
			name: "regular shift",
			st:   ShiftType{StartTime: clock("06:00"), EndTime: clock("14:00")},
			want: 480,
		},
		{
			name: "overnight shift wraps",
			st:   ShiftType{StartTime: clock("22:00"), EndTime: clock("06:00")},
			want: 480,
		},
		{
			name: "rest period",
			st:   ShiftType{IsRestPeriod: true},
			want: 0,
		},
		{
			name: "missing bounds",
			st:   ShiftType{StartTime: clock("08:00")},
			want: 0,
		},
		{
			name: "unparseable time",
			st:   ShiftType{StartTime: clock("late"), EndTime: clock("06:00")},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.st.DurationMinutes())
		})
	}
}

func TestHasBreakWindow(t *testing.T) {
	assert.True(t, (&ShiftType{BreakStart: clock("12:00"), BreakEnd: clock("12:30")}).HasBreakWindow())
	assert.False(t, (&ShiftType{BreakStart: clock("12:00")}).HasBreakWindow())
	assert.False(t, (&ShiftType{}).HasBreakWindow())
}
