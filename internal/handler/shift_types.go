package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
	"github.com/quattrodue/shift-planner/backend/internal/validate"
)

func (h *Handler) GetAllShiftTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.repository.AllShiftTypes(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift types fetched", types)
}

func (h *Handler) GetShiftType(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTypeCtx).(*domain.ShiftType)

	h.successResponse(w, r, "shift type fetched", st)
}

func (h *Handler) CreateShiftType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name" validate:"required"`
		Description  string  `json:"description"`
		StartTime    *string `json:"startTime"`
		EndTime      *string `json:"endTime"`
		BreakStart   *string `json:"breakStart"`
		BreakEnd     *string `json:"breakEnd"`
		ColorHex     string  `json:"colorHex" validate:"required"`
		IsRestPeriod bool    `json:"isRestPeriod"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	st := &domain.ShiftType{
		Name:          req.Name,
		Description:   req.Description,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		BreakStart:    req.BreakStart,
		BreakEnd:      req.BreakEnd,
		ColorHex:      req.ColorHex,
		IsRestPeriod:  req.IsRestPeriod,
		IsUserDefined: true,
	}

	res := validate.ShiftType(st)
	if !res.OK() {
		h.errorResponseWithData(w, r, "shift type validation failed", res)
		return
	}

	// Case-sensitive uniqueness against active and deactivated types alike.
	exists, err := h.repository.ShiftTypeNameExists(r.Context(), st.Name)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if exists {
		h.errorResponse(w, r, "a shift type with this name already exists")
		return
	}

	if err := h.repository.CreateShiftType(r.Context(), st); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "shift_types_name_key":
				h.errorResponse(w, r, "a shift type with this name already exists")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateRegistry(r)

	h.successResponse(w, r, "shift type created", map[string]any{
		"shiftType": st,
		"warnings":  res.Warnings,
	})
}

func (h *Handler) UpdateShiftType(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTypeCtx).(*domain.ShiftType)

	// Predefined types are seeded and immutable.
	if !st.IsUserDefined {
		h.errorResponse(w, r, "predefined shift types cannot be modified")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		StartTime   *string `json:"startTime"`
		EndTime     *string `json:"endTime"`
		BreakStart  *string `json:"breakStart"`
		BreakEnd    *string `json:"breakEnd"`
		ColorHex    *string `json:"colorHex"`
		IsActive    *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil && *req.Name != st.Name {
		exists, err := h.repository.ShiftTypeNameExists(r.Context(), *req.Name)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if exists {
			h.errorResponse(w, r, "a shift type with this name already exists")
			return
		}
		st.Name = *req.Name
	}
	if req.Description != nil {
		st.Description = *req.Description
	}
	if req.StartTime != nil {
		st.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		st.EndTime = req.EndTime
	}
	if req.BreakStart != nil {
		st.BreakStart = req.BreakStart
	}
	if req.BreakEnd != nil {
		st.BreakEnd = req.BreakEnd
	}
	if req.ColorHex != nil {
		st.ColorHex = *req.ColorHex
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}

	res := validate.ShiftType(st)
	if !res.OK() {
		h.errorResponseWithData(w, r, "shift type validation failed", res)
		return
	}

	if err := h.repository.UpdateShiftType(r.Context(), st); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateRegistry(r)

	h.successResponse(w, r, "shift type updated", map[string]any{
		"shiftType": st,
		"warnings":  res.Warnings,
	})
}

func (h *Handler) DeactivateShiftType(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTypeCtx).(*domain.ShiftType)

	if !st.IsUserDefined {
		h.errorResponse(w, r, "predefined shift types cannot be deactivated")
		return
	}

	if err := h.repository.DeactivateShiftType(r.Context(), st.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateRegistry(r)

	h.successResponse(w, r, "shift type deactivated", nil)
}

// invalidateRegistry refreshes the engine snapshot after a registry
// mutation so subsequent generations see the change immediately instead of
// waiting for the cron refresh.
func (h *Handler) invalidateRegistry(r *http.Request) {
	if err := h.registry.Refresh(r.Context()); err != nil {
		h.logger.Warn("registry refresh after mutation failed", "error", err)
	}
}
