package schedule

import (
	"time"
)

const secondsPerDay = 24 * 60 * 60

// NormalizeDate truncates t to UTC midnight. All engine date arithmetic
// happens on normalized dates so that DST and zone offsets cannot skew the
// cycle position.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EpochDay returns the number of whole days between t (normalized) and the
// Unix epoch. Negative for dates before 1970.
func EpochDay(t time.Time) int64 {
	return NormalizeDate(t).Unix() / secondsPerDay
}

// CycleOffset maps a date onto its position within a cycle of length days,
// relative to reference. The explicit double modulo keeps the result in
// [0, days) for dates before the reference as well.
func CycleOffset(date, reference time.Time, days int32) int32 {
	l := int64(days)
	diff := EpochDay(date) - EpochDay(reference)
	return int32(((diff % l) + l) % l)
}

// MonthBounds returns the first and last day of the calendar month that
// contains t, both at UTC midnight.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.UTC().Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}
