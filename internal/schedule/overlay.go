package schedule

import (
	"log/slog"
	"time"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

// OverlayOptions controls which exception statuses take part in the merge.
// ACTIVE records always apply; APPROVED records apply unless switched off.
// PENDING, REJECTED and CANCELLED never touch the schedule, which is what
// makes cancellation a pure fall-back to the base pattern.
type OverlayOptions struct {
	IncludeApproved bool
}

// OverlayExceptions merges one user's exception records into their base
// schedule and returns a new event slice; the base slice is never mutated.
// A malformed record (unknown type, duplicate date, unresolvable shift)
// degrades to "keep the base-pattern day" with a warning instead of failing
// the whole range.
func OverlayExceptions(logger *slog.Logger, snap *Snapshot, base []domain.WorkScheduleEvent, exceptions []*domain.TurnException, opts OverlayOptions) []domain.WorkScheduleEvent {
	if logger == nil {
		logger = slog.Default()
	}

	byDay := make(map[int64]*domain.TurnException, len(exceptions))
	for _, exc := range exceptions {
		if !applies(exc, opts) {
			continue
		}
		day := EpochDay(exc.Date)
		if prev, dup := byDay[day]; dup {
			// One exception per (user, date) is enforced upstream; a
			// duplicate here means inconsistent data, not a hard failure.
			logger.Warn("duplicate exception for user-day, keeping the first",
				"userID", exc.UserID, "date", exc.Date.Format(time.DateOnly), "kept", prev.ID, "skipped", exc.ID)
			continue
		}
		byDay[day] = exc
	}

	merged := make([]domain.WorkScheduleEvent, len(base))
	for i, ev := range base {
		exc, ok := byDay[EpochDay(ev.Date)]
		if !ok {
			merged[i] = ev
			continue
		}
		merged[i] = overrideEvent(logger, snap, ev, exc)
	}
	return merged
}

func applies(exc *domain.TurnException, opts OverlayOptions) bool {
	switch exc.Status {
	case domain.ExceptionActive:
		return true
	case domain.ExceptionApproved:
		return opts.IncludeApproved
	default:
		return false
	}
}

func overrideEvent(logger *slog.Logger, snap *Snapshot, base domain.WorkScheduleEvent, exc *domain.TurnException) domain.WorkScheduleEvent {
	if !exc.Type.Known() {
		logger.Warn("unknown exception type, keeping base-pattern day",
			"exceptionID", exc.ID, "type", string(exc.Type))
		return base
	}

	excType := exc.Type

	// Absence types null out the shift regardless of any replacement.
	if exc.AffectsWorkSchedule() {
		return domain.WorkScheduleEvent{
			Date:          base.Date,
			Team:          base.Team,
			IsRestPeriod:  true,
			Source:        domain.SourceExceptionOverride,
			ExceptionType: &excType,
		}
	}

	effective := exc.OriginalShiftType
	if exc.ReplacementShiftType != nil && *exc.ReplacementShiftType != "" {
		effective = *exc.ReplacementShiftType
	}
	if effective == "" {
		logger.Warn("exception carries no effective shift, keeping base-pattern day", "exceptionID", exc.ID)
		return base
	}

	st, ok := snap.ShiftTypeByName(effective)
	if !ok {
		logger.Warn("exception references an unknown shift type, keeping base-pattern day",
			"exceptionID", exc.ID, "shiftType", effective)
		return base
	}

	name := st.Name
	return domain.WorkScheduleEvent{
		Date:            base.Date,
		Team:            base.Team,
		ShiftType:       &name,
		IsRestPeriod:    st.IsRestPeriod,
		DurationMinutes: st.DurationMinutes(),
		Source:          domain.SourceExceptionOverride,
		ExceptionType:   &excType,
	}
}
