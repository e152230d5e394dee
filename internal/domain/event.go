package domain

import (
	"time"
)

type EventSource string

const (
	SourceBasePattern       EventSource = "BASE_PATTERN"
	SourceExceptionOverride EventSource = "EXCEPTION_OVERRIDE"
)

// WorkScheduleEvent is the merged output record consumed by reporting and
// calendar rendering: one event per (date, team) pair in the generated
// range. ShiftType is nil on rest days and on absence overrides.
type WorkScheduleEvent struct {
	Date            time.Time      `json:"date"` // UTC midnight
	Team            string         `json:"team"`
	ShiftType       *string        `json:"shiftType"`
	IsRestPeriod    bool           `json:"isRestPeriod"`
	DurationMinutes int32          `json:"durationMinutes"`
	Source          EventSource    `json:"source"`
	ExceptionType   *ExceptionType `json:"exceptionType,omitempty"`
}
