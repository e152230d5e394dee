package schedule

import (
	"time"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
	"github.com/quattrodue/shift-planner/backend/internal/validate"
)

// Provider turns a template and a date into that day's team/shift events.
// Implementations must be pure: same (template, date, team) in, same events
// out, no retained state between calls.
type Provider interface {
	// EventsForDay emits one base-pattern event per team assigned on date.
	// An empty team filter means all teams in the template roster.
	EventsForDay(snap *Snapshot, tpl *domain.WorkScheduleTemplate, date time.Time, team string) ([]domain.WorkScheduleEvent, error)

	// ValidateTemplate checks the template against the provider's
	// structural requirements on top of the shared rules.
	ValidateTemplate(tpl *domain.WorkScheduleTemplate) validate.Result
}

// defaultProviders wires one provider per template type.
func defaultProviders() map[domain.TemplateType]Provider {
	return map[domain.TemplateType]Provider{
		domain.TemplateFixed:  &FixedProvider{},
		domain.TemplateCustom: &CustomProvider{},
	}
}

func workEvent(date time.Time, team string, st *domain.ShiftType) domain.WorkScheduleEvent {
	name := st.Name
	return domain.WorkScheduleEvent{
		Date:            date,
		Team:            team,
		ShiftType:       &name,
		IsRestPeriod:    false,
		DurationMinutes: st.DurationMinutes(),
		Source:          domain.SourceBasePattern,
	}
}

func restEvent(date time.Time, team string) domain.WorkScheduleEvent {
	return domain.WorkScheduleEvent{
		Date:         date,
		Team:         team,
		IsRestPeriod: true,
		Source:       domain.SourceBasePattern,
	}
}
