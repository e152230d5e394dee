package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
	"github.com/quattrodue/shift-planner/backend/internal/schedule"
)

// scheduleQuery carries the common query parameters of the schedule
// endpoints. The overlay target defaults to nobody: without a user the
// endpoints return the raw base pattern.
type scheduleQuery struct {
	templateType domain.TemplateType
	team         string
	overlayUser  *domain.User
}

func (h *Handler) parseScheduleQuery(w http.ResponseWriter, r *http.Request) (*scheduleQuery, bool) {
	q := &scheduleQuery{
		templateType: domain.TemplateFixed,
		team:         r.URL.Query().Get("team"),
	}

	if t := r.URL.Query().Get("template"); t != "" {
		q.templateType = domain.TemplateType(t)
	}

	userParam := r.URL.Query().Get("user")
	if userParam == "" {
		return q, true
	}

	userID, err := strconv.ParseInt(userParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid user id")
		return nil, false
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	if myInfo.ID != userID && myInfo.Role != domain.RoleManager {
		h.errorResponse(w, r, "insufficient permissions")
		return nil, false
	}

	if myInfo.ID == userID {
		q.overlayUser = myInfo
		return q, true
	}

	target, err := h.repository.GetUserByID(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "user not found")
		default:
			h.internalServerError(w, r, err)
		}
		return nil, false
	}
	q.overlayUser = target
	return q, true
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, fmt.Errorf("missing %q parameter", name)
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q must be formatted as YYYY-MM-DD", name)
	}
	return t.UTC(), nil
}

// scheduleError maps engine failures onto the response envelope. Typed
// failures become client errors; anything else is a server error.
func (h *Handler) scheduleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidRange),
		errors.Is(err, schedule.ErrInvalidTemplate),
		errors.Is(err, schedule.ErrUnsupportedTemplate),
		errors.Is(err, schedule.ErrShiftTypeNotFound):
		h.errorResponse(w, r, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.errorResponse(w, r, "generation cancelled")
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseScheduleQuery(w, r)
	if !ok {
		return
	}

	start, err := parseDateParam(r, "start")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if days := schedule.EpochDay(end) - schedule.EpochDay(start); days >= int64(h.config.Schedule.MaxRangeDays) {
		h.errorResponse(w, r, fmt.Sprintf("requested range exceeds %d days", h.config.Schedule.MaxRangeDays))
		return
	}

	var events []domain.WorkScheduleEvent
	if q.overlayUser != nil {
		events, err = h.generator.GenerateForUser(r.Context(), q.overlayUser, start, end, q.templateType)
	} else {
		events, err = h.generator.GenerateSchedule(r.Context(), start, end, q.templateType, q.team)
	}
	if err != nil {
		h.scheduleError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule generated", events)
}

func (h *Handler) GetMonthlySchedule(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseScheduleQuery(w, r)
	if !ok {
		return
	}

	date, err := parseDateParam(r, "date")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	// Months are the calendar window the UI renders, so they are the unit
	// of caching. Cache hits skip generation entirely.
	cacheKey := monthlyCacheKey(q, date)
	cached, err := h.redisClient.Get(r.Context(), cacheKey).Result()
	switch {
	case err == nil:
		var events []domain.WorkScheduleEvent
		if err := json.Unmarshal([]byte(cached), &events); err == nil {
			h.successResponse(w, r, "schedule generated", events)
			return
		}
		// Unreadable cache entries are dropped and regenerated.
		_ = h.redisClient.Del(r.Context(), cacheKey).Err()
	case !errors.Is(err, redis.Nil):
		h.logger.Warn("schedule cache read failed", "key", cacheKey, "error", err)
	}

	var events []domain.WorkScheduleEvent
	if q.overlayUser != nil {
		first, last := schedule.MonthBounds(date)
		events, err = h.generator.GenerateForUser(r.Context(), q.overlayUser, first, last, q.templateType)
	} else {
		events, err = h.generator.GenerateMonthlySchedule(r.Context(), date, q.templateType, q.team)
	}
	if err != nil {
		h.scheduleError(w, r, err)
		return
	}

	if payload, err := json.Marshal(events); err == nil {
		ttl := time.Duration(h.config.Schedule.CacheTTL) * time.Second
		if err := h.redisClient.Set(r.Context(), cacheKey, payload, ttl).Err(); err != nil {
			h.logger.Warn("schedule cache write failed", "key", cacheKey, "error", err)
		}
	}

	h.successResponse(w, r, "schedule generated", events)
}

func (h *Handler) GetDailySchedule(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseScheduleQuery(w, r)
	if !ok {
		return
	}

	date, err := parseDateParam(r, "date")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	var events []domain.WorkScheduleEvent
	if q.overlayUser != nil {
		events, err = h.generator.GenerateForUser(r.Context(), q.overlayUser, date, date, q.templateType)
	} else {
		events, err = h.generator.GenerateDailySchedule(r.Context(), date, q.templateType, q.team)
	}
	if err != nil {
		h.scheduleError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule generated", events)
}

func (h *Handler) GetScheduleStatistics(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseScheduleQuery(w, r)
	if !ok {
		return
	}

	start, err := parseDateParam(r, "start")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	stats, err := h.generator.ScheduleStatistics(r.Context(), start, end, q.templateType)
	if err != nil {
		h.scheduleError(w, r, err)
		return
	}

	h.successResponse(w, r, "statistics computed", stats)
}

func (h *Handler) GetTeamsByDay(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseScheduleQuery(w, r)
	if !ok {
		return
	}

	date, err := parseDateParam(r, "date")
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	working, err := h.generator.WorkingTeams(r.Context(), date, q.templateType)
	if err != nil {
		h.scheduleError(w, r, err)
		return
	}
	off, err := h.generator.TeamsOffWork(r.Context(), date, q.templateType)
	if err != nil {
		h.scheduleError(w, r, err)
		return
	}

	h.successResponse(w, r, "teams fetched", map[string]any{
		"working": working,
		"off":     off,
	})
}

func monthlyCacheKey(q *scheduleQuery, date time.Time) string {
	target := "team_" + q.team
	if q.overlayUser != nil {
		target = fmt.Sprintf("user_%d", q.overlayUser.ID)
	}
	return fmt.Sprintf("monthly_schedule:%s:%s:%s", q.templateType, target, date.Format("2006-01"))
}

// invalidateUserScheduleCache drops the cached months touched by an
// exception mutation for every template type, so the next read regenerates.
func (h *Handler) invalidateUserScheduleCache(ctx context.Context, userID int64, date time.Time) {
	month := date.Format("2006-01")
	for _, tt := range []domain.TemplateType{domain.TemplateFixed, domain.TemplateCustom} {
		key := fmt.Sprintf("monthly_schedule:%s:user_%d:%s", tt, userID, month)
		if err := h.redisClient.Del(ctx, key).Err(); err != nil {
			h.logger.Warn("schedule cache invalidation failed", "key", key, "error", err)
		}
	}
}
