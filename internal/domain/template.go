package domain

import (
	"time"
)

type TemplateType string

const (
	TemplateFixed  TemplateType = "FIXED"
	TemplateCustom TemplateType = "CUSTOM"
)

// TeamShiftAssignment binds one team to one shift type (or to rest) within a
// single day pattern. ShiftType is empty when Rest is set.
type TeamShiftAssignment struct {
	Team      string `json:"team"`
	ShiftType string `json:"shiftType"`
	Rest      bool   `json:"rest"`
}

// DayPattern holds the stored assignments for one offset of a CUSTOM cycle.
type DayPattern struct {
	Offset      int32                 `json:"offset"`
	Assignments []TeamShiftAssignment `json:"assignments"`
}

// WorkScheduleTemplate describes a cyclic rotation. FIXED templates derive
// their day patterns algorithmically from the phase step and the work/rest
// window lengths; CUSTOM templates carry one stored DayPattern per offset.
type WorkScheduleTemplate struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Type          TemplateType `json:"type"`
	CycleDays     int32        `json:"cycleDays"`
	ReferenceDate time.Time    `json:"referenceDate"` // UTC midnight; offset 0 of the cycle
	Teams         []string     `json:"teams"`

	// FIXED rotation parameters. Each team works WorkDays consecutive days
	// of WorkShifts[block], then rests RestDays days, for each block in
	// order; CycleDays must equal (WorkDays+RestDays)*len(WorkShifts).
	PhaseStep  int32    `json:"phaseStep"`
	WorkDays   int32    `json:"workDays"`
	RestDays   int32    `json:"restDays"`
	WorkShifts []string `json:"workShifts"`

	// CUSTOM patterns, one per offset 0..CycleDays-1.
	Patterns []DayPattern `json:"patterns"`

	IsPredefined bool      `json:"isPredefined"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

// TeamIndex returns the position of team in the roster, or -1.
func (t *WorkScheduleTemplate) TeamIndex(team string) int {
	for i, tm := range t.Teams {
		if tm == team {
			return i
		}
	}
	return -1
}
