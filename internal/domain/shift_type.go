package domain

import (
	"time"
)

// ClockLayout is the wall-clock format used for shift time bounds.
const ClockLayout = "15:04"

// Predefined shift type names seeded on first start. Predefined types are
// immutable: update and deactivate requests against them must be rejected.
const (
	ShiftMorning   = "Mattino"
	ShiftAfternoon = "Pomeriggio"
	ShiftNight     = "Notte"
	ShiftRest      = "Riposo"
)

type ShiftType struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	StartTime     *string   `json:"startTime"` // nil for rest periods
	EndTime       *string   `json:"endTime"`
	BreakStart    *string   `json:"breakStart"`
	BreakEnd      *string   `json:"breakEnd"`
	ColorHex      string    `json:"colorHex"`
	IsRestPeriod  bool      `json:"isRestPeriod"`
	IsUserDefined bool      `json:"isUserDefined"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	Version       int32     `json:"-"`
}

// DurationMinutes returns the length of the shift in minutes. Shifts that
// cross midnight (e.g. Notte 22:00-06:00) wrap around. Rest periods and
// shifts with missing bounds have a duration of zero.
func (st *ShiftType) DurationMinutes() int32 {
	if st.IsRestPeriod || st.StartTime == nil || st.EndTime == nil {
		return 0
	}

	start, err := time.Parse(ClockLayout, *st.StartTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse(ClockLayout, *st.EndTime)
	if err != nil {
		return 0
	}

	minutes := int32(end.Sub(start).Minutes())
	if minutes <= 0 {
		minutes += 24 * 60
	}
	return minutes
}

// HasBreakWindow reports whether both break bounds are set.
func (st *ShiftType) HasBreakWindow() bool {
	return st.BreakStart != nil && st.BreakEnd != nil
}
