package schedule

import (
	"time"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
)

// Statistics is derived from an already-generated event list; computing it
// never re-runs the provider.
type Statistics struct {
	TotalEvents        int            `json:"totalEvents"`
	WorkEvents         int            `json:"workEvents"`
	RestEvents         int            `json:"restEvents"`
	ByTeam             map[string]int `json:"byTeam"`
	ByShiftType        map[string]int `json:"byShiftType"`
	TotalWorkHours     float64        `json:"totalWorkHours"`
	AvgWorkHoursPerDay float64        `json:"avgWorkHoursPerDay"`
}

func ComputeStatistics(events []domain.WorkScheduleEvent, start, end time.Time) Statistics {
	stats := Statistics{
		TotalEvents: len(events),
		ByTeam:      make(map[string]int),
		ByShiftType: make(map[string]int),
	}

	var workMinutes int64
	for _, ev := range events {
		stats.ByTeam[ev.Team]++
		if ev.IsRestPeriod {
			stats.RestEvents++
			continue
		}
		stats.WorkEvents++
		workMinutes += int64(ev.DurationMinutes)
		if ev.ShiftType != nil {
			stats.ByShiftType[*ev.ShiftType]++
		}
	}

	stats.TotalWorkHours = float64(workMinutes) / 60

	days := EpochDay(end) - EpochDay(start) + 1
	if days > 0 {
		stats.AvgWorkHoursPerDay = stats.TotalWorkHours / float64(days)
	}

	return stats
}
