package schedule

import (
	"fmt"
	"time"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
	"github.com/quattrodue/shift-planner/backend/internal/validate"
)

// FixedProvider encodes a continuous-coverage rotation in closed form.
//
// Each team i carries a personal phase i*PhaseStep mod CycleDays. Its
// position within the cycle on a given date is (dayOffset + phase) mod
// CycleDays; the cycle is divided into len(WorkShifts) blocks of
// WorkDays+RestDays positions, where the first WorkDays positions of block
// b map to WorkShifts[b] and the remainder to rest.
//
// The canonical instance is the 4-on/2-off rota: CycleDays 18, nine teams,
// PhaseStep 2, WorkShifts {Mattino, Pomeriggio, Notte}. With that roster
// every work shift is covered by exactly two teams on every date and three
// teams rest, because the nine even phases place two positions inside every
// 4-day work window and one inside every 2-day rest window.
type FixedProvider struct{}

func (p *FixedProvider) EventsForDay(snap *Snapshot, tpl *domain.WorkScheduleTemplate, date time.Time, team string) ([]domain.WorkScheduleEvent, error) {
	date = NormalizeDate(date)
	offset := CycleOffset(date, tpl.ReferenceDate, tpl.CycleDays)
	span := tpl.WorkDays + tpl.RestDays

	events := make([]domain.WorkScheduleEvent, 0, len(tpl.Teams))
	for i, tm := range tpl.Teams {
		if team != "" && tm != team {
			continue
		}

		pos := (offset + int32(i)*tpl.PhaseStep) % tpl.CycleDays
		block := pos / span
		rest := pos%span >= tpl.WorkDays

		if rest {
			events = append(events, restEvent(date, tm))
			continue
		}

		name := tpl.WorkShifts[block]
		st, ok := snap.ShiftTypeByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q referenced by template %q", ErrShiftTypeNotFound, name, tpl.Name)
		}
		events = append(events, workEvent(date, tm, st))
	}

	return events, nil
}

func (p *FixedProvider) ValidateTemplate(tpl *domain.WorkScheduleTemplate) validate.Result {
	res := validate.Template(tpl)

	if tpl.WorkDays <= 0 {
		res.Errorf("workDays must be positive, got %d", tpl.WorkDays)
	}
	if tpl.RestDays < 0 {
		res.Errorf("restDays must not be negative, got %d", tpl.RestDays)
	}
	if tpl.PhaseStep <= 0 {
		res.Errorf("phaseStep must be positive, got %d", tpl.PhaseStep)
	}
	if len(tpl.WorkShifts) == 0 {
		res.Errorf("at least one work shift is required")
	}

	if !res.OK() {
		return res
	}

	span := tpl.WorkDays + tpl.RestDays
	if span*int32(len(tpl.WorkShifts)) != tpl.CycleDays {
		res.Errorf("cycleDays must equal (workDays+restDays)*len(workShifts): %d != %d", tpl.CycleDays, span*int32(len(tpl.WorkShifts)))
	}
	if int32(len(tpl.Teams))*tpl.PhaseStep < tpl.CycleDays {
		res.Warnf("roster of %d teams with phase step %d does not span the full cycle; some days may leave shifts uncovered", len(tpl.Teams), tpl.PhaseStep)
	}

	return res
}
