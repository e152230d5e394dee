package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

// Generator drives a provider across a date range and assembles the result.
// It keeps no state between calls: the same (range, template, team) input
// always yields the same output, which is what makes exception reversal a
// pure regeneration.
type Generator struct {
	registry   *Registry
	exceptions TurnExceptionStore
	providers  map[domain.TemplateType]Provider
	logger     *slog.Logger
	overlay    OverlayOptions
}

func NewGenerator(registry *Registry, exceptions TurnExceptionStore, logger *slog.Logger, overlay OverlayOptions) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		registry:   registry,
		exceptions: exceptions,
		providers:  defaultProviders(),
		logger:     logger,
		overlay:    overlay,
	}
}

// GenerateSchedule produces the base-pattern events for [start, end]
// inclusive, ordered by date then team. An empty team generates for the
// whole roster. Either the whole range succeeds or no events are returned.
func (g *Generator) GenerateSchedule(ctx context.Context, start, end time.Time, templateType domain.TemplateType, team string) ([]domain.WorkScheduleEvent, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: missing bounds", ErrInvalidRange)
	}
	start, end = NormalizeDate(start), NormalizeDate(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	snap, err := g.registry.Current(ctx)
	if err != nil {
		return nil, err
	}

	tpl, ok := snap.TemplateByType(templateType)
	if !ok {
		return nil, fmt.Errorf("%w: no template registered for type %q", ErrInvalidTemplate, templateType)
	}
	provider, ok := g.providers[tpl.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTemplate, tpl.Type)
	}
	if res := provider.ValidateTemplate(tpl); !res.OK() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, res.Err())
	}
	if team != "" && tpl.TeamIndex(team) < 0 {
		return nil, fmt.Errorf("%w: team %q is not in the roster of template %q", ErrInvalidTemplate, team, tpl.Name)
	}

	if team == "" && len(tpl.Teams) > 1 {
		return g.generateAllTeams(ctx, snap, provider, tpl, start, end)
	}
	return g.generateRange(ctx, snap, provider, tpl, start, end, team)
}

// GenerateMonthlySchedule generates for the calendar month containing date.
func (g *Generator) GenerateMonthlySchedule(ctx context.Context, date time.Time, templateType domain.TemplateType, team string) ([]domain.WorkScheduleEvent, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: missing date", ErrInvalidRange)
	}
	first, last := MonthBounds(date)
	return g.GenerateSchedule(ctx, first, last, templateType, team)
}

// GenerateDailySchedule generates for a single day.
func (g *Generator) GenerateDailySchedule(ctx context.Context, date time.Time, templateType domain.TemplateType, team string) ([]domain.WorkScheduleEvent, error) {
	return g.GenerateSchedule(ctx, date, date, templateType, team)
}

// GenerateForUser produces the user's merged schedule: the base pattern of
// their team overlaid with their exception records for the range, fetched
// as a single batched query.
func (g *Generator) GenerateForUser(ctx context.Context, user *domain.User, start, end time.Time, templateType domain.TemplateType) ([]domain.WorkScheduleEvent, error) {
	base, err := g.GenerateSchedule(ctx, start, end, templateType, user.Team)
	if err != nil {
		return nil, err
	}

	excs, err := g.exceptions.ExceptionsForUserAndRange(ctx, user.ID, NormalizeDate(start), NormalizeDate(end))
	if err != nil {
		return nil, err
	}

	snap, err := g.registry.Current(ctx)
	if err != nil {
		return nil, err
	}

	return OverlayExceptions(g.logger, snap, base, excs, g.overlay), nil
}

// WorkingTeams returns the teams assigned to any work shift on date.
func (g *Generator) WorkingTeams(ctx context.Context, date time.Time, templateType domain.TemplateType) ([]string, error) {
	events, err := g.GenerateDailySchedule(ctx, date, templateType, "")
	if err != nil {
		return nil, err
	}

	teams := make([]string, 0, len(events))
	for _, ev := range events {
		if !ev.IsRestPeriod {
			teams = append(teams, ev.Team)
		}
	}
	sort.Strings(teams)
	return teams, nil
}

// TeamsOffWork returns the complement of WorkingTeams against the template
// roster: teams resting or simply absent from the day's assignments.
func (g *Generator) TeamsOffWork(ctx context.Context, date time.Time, templateType domain.TemplateType) ([]string, error) {
	events, err := g.GenerateDailySchedule(ctx, date, templateType, "")
	if err != nil {
		return nil, err
	}

	snap, err := g.registry.Current(ctx)
	if err != nil {
		return nil, err
	}
	tpl, ok := snap.TemplateByType(templateType)
	if !ok {
		return nil, fmt.Errorf("%w: no template registered for type %q", ErrInvalidTemplate, templateType)
	}

	working := make(map[string]bool, len(events))
	for _, ev := range events {
		if !ev.IsRestPeriod {
			working[ev.Team] = true
		}
	}

	off := make([]string, 0, len(tpl.Teams))
	for _, tm := range tpl.Teams {
		if !working[tm] {
			off = append(off, tm)
		}
	}
	sort.Strings(off)
	return off, nil
}

// ScheduleStatistics generates the range and derives aggregates from the
// events without re-running the provider.
func (g *Generator) ScheduleStatistics(ctx context.Context, start, end time.Time, templateType domain.TemplateType) (*Statistics, error) {
	events, err := g.GenerateSchedule(ctx, start, end, templateType, "")
	if err != nil {
		return nil, err
	}
	stats := ComputeStatistics(events, NormalizeDate(start), NormalizeDate(end))
	return &stats, nil
}

// generateRange walks the days sequentially for one team (or for the whole
// roster when the template has a single team). The context is checked
// between day iterations so long multi-month generations stay cancellable.
func (g *Generator) generateRange(ctx context.Context, snap *Snapshot, provider Provider, tpl *domain.WorkScheduleTemplate, start, end time.Time, team string) (events []domain.WorkScheduleEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			events = nil
			err = &GenerationError{Cause: fmt.Errorf("provider panic: %v", r)}
		}
	}()

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dayEvents, err := provider.EventsForDay(snap, tpl, day, team)
		if err != nil {
			return nil, err
		}
		events = append(events, dayEvents...)
	}

	sortEvents(events)
	return events, nil
}

// generateAllTeams fans the range out per team and reassembles the results
// in deterministic date/team order. Each team's slice is independent, so no
// locking is needed; a single failure aborts the whole call.
func (g *Generator) generateAllTeams(ctx context.Context, snap *Snapshot, provider Provider, tpl *domain.WorkScheduleTemplate, start, end time.Time) ([]domain.WorkScheduleEvent, error) {
	grp, grpCtx := errgroup.WithContext(ctx)
	perTeam := make([][]domain.WorkScheduleEvent, len(tpl.Teams))

	for i, team := range tpl.Teams {
		i, team := i, team
		grp.Go(func() error {
			events, err := g.generateRange(grpCtx, snap, provider, tpl, start, end, team)
			if err != nil {
				return err
			}
			perTeam[i] = events
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	var events []domain.WorkScheduleEvent
	for _, teamEvents := range perTeam {
		events = append(events, teamEvents...)
	}
	sortEvents(events)
	return events, nil
}

func sortEvents(events []domain.WorkScheduleEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Team < events[j].Team
	})
}
