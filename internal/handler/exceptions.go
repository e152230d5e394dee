package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
	"github.com/quattrodue/shift-planner/backend/internal/schedule"
)

// CreateException records a per-day override for the requesting user. The
// base-pattern shift for that day is captured at creation time so the
// exception stays reversible even if the template changes afterwards.
func (h *Handler) CreateException(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date                 string  `json:"date" validate:"required"`
		Type                 string  `json:"type" validate:"required"`
		ReplacementShiftType *string `json:"replacementShiftType"`
		Note                 string  `json:"note" validate:"max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	excType := domain.ExceptionType(req.Type)
	if !excType.Known() {
		h.errorResponse(w, r, "unknown exception type")
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		h.errorResponse(w, r, `"date" must be formatted as YYYY-MM-DD`)
		return
	}
	date = schedule.NormalizeDate(date)

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	if myInfo.Team == "" {
		h.errorResponse(w, r, "account is not assigned to a team")
		return
	}

	if req.ReplacementShiftType != nil {
		snap, err := h.registry.Current(r.Context())
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if _, ok := snap.ShiftTypeByName(*req.ReplacementShiftType); !ok {
			h.errorResponse(w, r, "replacement shift type does not exist")
			return
		}
	}

	baseDay, err := h.generator.GenerateSchedule(r.Context(), date, date, domain.TemplateFixed, myInfo.Team)
	if err != nil {
		h.scheduleError(w, r, err)
		return
	}

	original := domain.ShiftRest
	if len(baseDay) > 0 && baseDay[0].ShiftType != nil {
		original = *baseDay[0].ShiftType
	}

	// A manager's own exception takes effect immediately; everyone else
	// goes through the approval workflow.
	status := domain.ExceptionPending
	if myInfo.Role == domain.RoleManager {
		status = domain.ExceptionActive
	}

	exc := &domain.TurnException{
		UserID:               myInfo.ID,
		Date:                 date,
		Type:                 excType,
		OriginalShiftType:    original,
		ReplacementShiftType: req.ReplacementShiftType,
		Status:               status,
		Note:                 req.Note,
	}

	if err := h.repository.CreateException(r.Context(), exc); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "turn_exceptions_user_id_exception_date_key":
			h.errorResponse(w, r, "an exception already exists for that day")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateUserScheduleCache(r.Context(), myInfo.ID, date)

	h.successResponse(w, r, "exception created", exc)
}

func (h *Handler) GetMyExceptions(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	// Default to the current month when no range is given.
	start, end := schedule.MonthBounds(time.Now().UTC())
	if r.URL.Query().Get("start") != "" || r.URL.Query().Get("end") != "" {
		var err error
		start, err = parseDateParam(r, "start")
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
		end, err = parseDateParam(r, "end")
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
	}

	exceptions, err := h.repository.ExceptionsForUserAndRange(r.Context(), myInfo.ID, start, end)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "exceptions fetched", exceptions)
}

// UpdateException lets the owner adjust a request that has not been decided
// yet. ACTIVE exceptions (manager-created) are editable by their owner too.
func (h *Handler) UpdateException(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type                 *string `json:"type"`
		ReplacementShiftType *string `json:"replacementShiftType"`
		Note                 *string `json:"note" validate:"omitempty,max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	exc := r.Context().Value(ExceptionCtx).(*domain.TurnException)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if exc.UserID != myInfo.ID {
		h.errorResponse(w, r, "insufficient permissions")
		return
	}
	if exc.Status != domain.ExceptionPending && exc.Status != domain.ExceptionActive {
		h.errorResponse(w, r, "only pending or active exceptions can be updated")
		return
	}

	if req.Type != nil {
		excType := domain.ExceptionType(*req.Type)
		if !excType.Known() {
			h.errorResponse(w, r, "unknown exception type")
			return
		}
		exc.Type = excType
	}
	if req.ReplacementShiftType != nil {
		snap, err := h.registry.Current(r.Context())
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if _, ok := snap.ShiftTypeByName(*req.ReplacementShiftType); !ok {
			h.errorResponse(w, r, "replacement shift type does not exist")
			return
		}
		exc.ReplacementShiftType = req.ReplacementShiftType
	}
	if req.Note != nil {
		exc.Note = *req.Note
	}

	if err := h.repository.UpdateException(r.Context(), exc); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "exception was modified concurrently, retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateUserScheduleCache(r.Context(), exc.UserID, exc.Date)

	h.successResponse(w, r, "exception updated", exc)
}

// CancelException flips the record to CANCELLED instead of deleting it, so
// the next generation restores the preserved base-pattern shift while the
// history stays queryable.
func (h *Handler) CancelException(w http.ResponseWriter, r *http.Request) {
	exc := r.Context().Value(ExceptionCtx).(*domain.TurnException)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if exc.UserID != myInfo.ID && myInfo.Role != domain.RoleManager {
		h.errorResponse(w, r, "insufficient permissions")
		return
	}
	if exc.Status == domain.ExceptionCancelled {
		h.errorResponse(w, r, "exception is already cancelled")
		return
	}

	exc.Status = domain.ExceptionCancelled
	if err := h.repository.UpdateException(r.Context(), exc); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "exception was modified concurrently, retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateUserScheduleCache(r.Context(), exc.UserID, exc.Date)

	h.successResponse(w, r, "exception cancelled", exc)
}

func (h *Handler) DecideException(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Decision string `json:"decision" validate:"required,oneof=approve reject"`
		Note     string `json:"note" validate:"max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	exc := r.Context().Value(ExceptionCtx).(*domain.TurnException)
	if exc.Status != domain.ExceptionPending {
		h.errorResponse(w, r, "only pending exceptions can be decided")
		return
	}

	switch req.Decision {
	case "approve":
		exc.Status = domain.ExceptionApproved
	case "reject":
		exc.Status = domain.ExceptionRejected
	}
	if req.Note != "" {
		exc.Note = req.Note
	}

	if err := h.repository.UpdateException(r.Context(), exc); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "exception was modified concurrently, retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateUserScheduleCache(r.Context(), exc.UserID, exc.Date)

	owner, err := h.repository.GetUserByID(r.Context(), exc.UserID)
	if err != nil {
		// The decision is already recorded; a missing owner only costs
		// the notification.
		h.logger.Warn("exception owner lookup failed", "exception", exc.ID, "error", err)
		h.successResponse(w, r, "exception decided", exc)
		return
	}

	mailMessage := domain.MailMessage{
		Type: "exception_decided",
		To:   owner.Email,
		Data: domain.ExceptionDecidedMailData{
			FullName:      owner.FullName,
			Date:          exc.Date.Format(time.DateOnly),
			ExceptionType: string(exc.Type),
			Decision:      req.Decision,
			Note:          exc.Note,
		},
	}

	if err := h.publishNotification(mailMessage); err != nil {
		h.logger.Warn("exception decision notification failed", "exception", exc.ID, "error", err)
	}

	h.successResponse(w, r, "exception decided", exc)
}

// publishNotification serializes a mail message onto the notification queue
// consumed by the notify binary.
func (h *Handler) publishNotification(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.notifyChannel.PublishWithContext(
		ctx,
		"",
		"notification_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
