package schedule

import (
	"fmt"
	"time"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
	"github.com/quattrodue/shift-planner/backend/internal/validate"
)

// CustomProvider returns the stored day pattern at the date's cycle offset
// verbatim. No formula, pure table lookup.
type CustomProvider struct{}

func (p *CustomProvider) EventsForDay(snap *Snapshot, tpl *domain.WorkScheduleTemplate, date time.Time, team string) ([]domain.WorkScheduleEvent, error) {
	date = NormalizeDate(date)
	offset := CycleOffset(date, tpl.ReferenceDate, tpl.CycleDays)

	var pattern *domain.DayPattern
	for i := range tpl.Patterns {
		if tpl.Patterns[i].Offset == offset {
			pattern = &tpl.Patterns[i]
			break
		}
	}
	if pattern == nil {
		return nil, fmt.Errorf("%w: template %q has no pattern for offset %d", ErrInvalidTemplate, tpl.Name, offset)
	}

	events := make([]domain.WorkScheduleEvent, 0, len(pattern.Assignments))
	for _, a := range pattern.Assignments {
		if team != "" && a.Team != team {
			continue
		}

		if a.Rest {
			events = append(events, restEvent(date, a.Team))
			continue
		}

		st, ok := snap.ShiftTypeByName(a.ShiftType)
		if !ok {
			return nil, fmt.Errorf("%w: %q referenced by template %q at offset %d", ErrShiftTypeNotFound, a.ShiftType, tpl.Name, offset)
		}
		events = append(events, workEvent(date, a.Team, st))
	}

	return events, nil
}

func (p *CustomProvider) ValidateTemplate(tpl *domain.WorkScheduleTemplate) validate.Result {
	res := validate.Template(tpl)
	if tpl.CycleDays <= 0 {
		return res
	}

	if int32(len(tpl.Patterns)) != tpl.CycleDays {
		res.Errorf("patterns count must equal cycleDays: %d != %d", len(tpl.Patterns), tpl.CycleDays)
		return res
	}

	roster := make(map[string]bool, len(tpl.Teams))
	for _, tm := range tpl.Teams {
		roster[tm] = true
	}

	seenOffsets := make(map[int32]bool, len(tpl.Patterns))
	for _, pattern := range tpl.Patterns {
		if pattern.Offset < 0 || pattern.Offset >= tpl.CycleDays {
			res.Errorf("pattern offset %d is outside 0..%d", pattern.Offset, tpl.CycleDays-1)
			continue
		}
		if seenOffsets[pattern.Offset] {
			res.Errorf("pattern offset %d appears more than once", pattern.Offset)
		}
		seenOffsets[pattern.Offset] = true

		// Each team appears at most once per offset.
		seenTeams := make(map[string]bool, len(pattern.Assignments))
		for _, a := range pattern.Assignments {
			if seenTeams[a.Team] {
				res.Errorf("team %q is assigned twice at offset %d", a.Team, pattern.Offset)
			}
			seenTeams[a.Team] = true

			if !roster[a.Team] {
				res.Errorf("team %q at offset %d is not in the template roster", a.Team, pattern.Offset)
			}
			if !a.Rest && a.ShiftType == "" {
				res.Errorf("assignment for team %q at offset %d has neither a shift type nor rest", a.Team, pattern.Offset)
			}
		}
	}

	return res
}
