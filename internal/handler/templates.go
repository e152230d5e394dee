package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quattrodue/shift-planner/backend/internal/domain"
	"github.com/quattrodue/shift-planner/backend/internal/schedule"
)

func (h *Handler) GetAllTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.repository.PredefinedTemplates(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "templates fetched", templates)
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid template id")
		return
	}

	tpl, err := h.repository.TemplateByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "template not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "template fetched", tpl)
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name" validate:"required"`
		Description   string `json:"description"`
		Type          string `json:"type" validate:"required,oneof=FIXED CUSTOM"`
		CycleDays     int32  `json:"cycleDays" validate:"required"`
		ReferenceDate string `json:"referenceDate" validate:"required"`
		Teams         []string `json:"teams" validate:"required,min=1"`

		PhaseStep  int32    `json:"phaseStep"`
		WorkDays   int32    `json:"workDays"`
		RestDays   int32    `json:"restDays"`
		WorkShifts []string `json:"workShifts"`

		Patterns []struct {
			Offset      int32 `json:"offset"`
			Assignments []struct {
				Team      string `json:"team" validate:"required"`
				ShiftType string `json:"shiftType"`
				Rest      bool   `json:"rest"`
			} `json:"assignments"`
		} `json:"patterns"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	reference, err := time.Parse(time.DateOnly, req.ReferenceDate)
	if err != nil {
		h.errorResponse(w, r, "referenceDate must be formatted as YYYY-MM-DD")
		return
	}

	tpl := &domain.WorkScheduleTemplate{
		Name:          req.Name,
		Description:   req.Description,
		Type:          domain.TemplateType(req.Type),
		CycleDays:     req.CycleDays,
		ReferenceDate: reference.UTC(),
		Teams:         req.Teams,
		PhaseStep:     req.PhaseStep,
		WorkDays:      req.WorkDays,
		RestDays:      req.RestDays,
		WorkShifts:    req.WorkShifts,
	}
	for _, pattern := range req.Patterns {
		dp := domain.DayPattern{Offset: pattern.Offset}
		for _, a := range pattern.Assignments {
			dp.Assignments = append(dp.Assignments, domain.TeamShiftAssignment{
				Team:      a.Team,
				ShiftType: a.ShiftType,
				Rest:      a.Rest,
			})
		}
		tpl.Patterns = append(tpl.Patterns, dp)
	}

	var provider schedule.Provider
	switch tpl.Type {
	case domain.TemplateFixed:
		provider = &schedule.FixedProvider{}
	case domain.TemplateCustom:
		provider = &schedule.CustomProvider{}
	}

	res := provider.ValidateTemplate(tpl)
	if !res.OK() {
		h.errorResponseWithData(w, r, "template validation failed", res)
		return
	}

	if err := h.repository.CreateTemplate(r.Context(), tpl); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "work_schedule_templates_name_key":
				h.errorResponse(w, r, "a template with this name already exists")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateRegistry(r)

	h.successResponse(w, r, "template created", map[string]any{
		"template": tpl,
		"warnings": res.Warnings,
	})
}
