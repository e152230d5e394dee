// Package validate holds the business-rule validation for shift types and
// rotation templates. Rules produce a Result carrying hard errors and
// non-blocking warnings instead of failing on the first violation.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

const (
	MaxNameLength      = 50
	MinShiftMinutes    = 30
	MaxShiftMinutes    = 24 * 60
	ShortShiftMinutes  = 60
	LongShiftMinutes   = 12 * 60
	LongCycleThreshold = 365
)

var colorHexPattern = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

type Result struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r *Result) Errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// Err joins all hard errors into a single error, or nil when the result is
// clean. Warnings never surface here.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	return errors.New(strings.Join(r.Errors, "; "))
}

func parseClock(r *Result, what, value string) (time.Time, bool) {
	t, err := time.Parse(domain.ClockLayout, value)
	if err != nil {
		r.Errorf("%s %q is not a valid HH:MM time", what, value)
		return time.Time{}, false
	}
	return t, true
}

// ShiftType checks name, color, time bounds, the duration window and the
// break window.
func ShiftType(st *domain.ShiftType) Result {
	var res Result

	name := strings.TrimSpace(st.Name)
	if name == "" {
		res.Errorf("name is required")
	} else if len([]rune(name)) > MaxNameLength {
		res.Errorf("name must be at most %d characters", MaxNameLength)
	}

	if st.ColorHex == "" {
		res.Errorf("colorHex is required")
	} else if !colorHexPattern.MatchString(st.ColorHex) {
		res.Errorf("colorHex %q is not a valid hex color", st.ColorHex)
	}

	if st.IsRestPeriod {
		if st.StartTime != nil || st.EndTime != nil {
			res.Warnf("rest periods do not use start or end times")
		}
		return res
	}

	if st.StartTime == nil || st.EndTime == nil {
		res.Errorf("non-rest shift types require both start and end times")
		return res
	}

	if _, ok := parseClock(&res, "startTime", *st.StartTime); !ok {
		return res
	}
	if _, ok := parseClock(&res, "endTime", *st.EndTime); !ok {
		return res
	}

	minutes := st.DurationMinutes()
	switch {
	case minutes < MinShiftMinutes || minutes > MaxShiftMinutes:
		res.Errorf("shift duration must be between %d and %d minutes, got %d", MinShiftMinutes, MaxShiftMinutes, minutes)
	case minutes < ShortShiftMinutes:
		res.Warnf("shift is shorter than one hour")
	case minutes > LongShiftMinutes:
		res.Warnf("shift is longer than twelve hours")
	}

	// Break bounds come as a pair or not at all.
	if (st.BreakStart == nil) != (st.BreakEnd == nil) {
		res.Errorf("break window requires both breakStart and breakEnd")
	} else if st.HasBreakWindow() {
		bs, okStart := parseClock(&res, "breakStart", *st.BreakStart)
		be, okEnd := parseClock(&res, "breakEnd", *st.BreakEnd)
		if okStart && okEnd && !bs.Before(be) {
			res.Errorf("breakStart must be before breakEnd")
		}
	}

	return res
}

// Template checks the structural rules shared by both template types. The
// per-type providers layer their own checks on top of this.
func Template(t *domain.WorkScheduleTemplate) Result {
	var res Result

	if strings.TrimSpace(t.Name) == "" {
		res.Errorf("name is required")
	}
	if t.Type != domain.TemplateFixed && t.Type != domain.TemplateCustom {
		res.Errorf("type must be FIXED or CUSTOM, got %q", t.Type)
	}
	if t.CycleDays <= 0 {
		res.Errorf("cycleDays must be positive, got %d", t.CycleDays)
	} else if t.CycleDays > LongCycleThreshold {
		res.Warnf("cycle of %d days is longer than a year", t.CycleDays)
	}
	if t.ReferenceDate.IsZero() {
		res.Errorf("referenceDate is required")
	}

	if len(t.Teams) == 0 {
		res.Errorf("at least one team is required")
	}
	seen := make(map[string]bool, len(t.Teams))
	for _, team := range t.Teams {
		if team == "" {
			res.Errorf("team names must not be empty")
			continue
		}
		if seen[team] {
			res.Errorf("team %q appears more than once in the roster", team)
		}
		seen[team] = true
	}

	return res
}
