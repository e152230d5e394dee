package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/quattrodue/shift-planner/backend/internal/config"
	"github.com/quattrodue/shift-planner/backend/internal/domain"
	"github.com/quattrodue/shift-planner/backend/internal/repository"
	"github.com/quattrodue/shift-planner/backend/internal/schedule"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    *repository.Repository
	translator    ut.Translator
	notifyChannel *amqp.Channel
	redisClient   *redis.Client
	registry      *schedule.Registry
	generator     *schedule.Generator
	logger        *slog.Logger

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifyCh *amqp.Channel, rdb *redis.Client, logger *slog.Logger) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	registry := schedule.NewRegistry(repo, repo)
	generator := schedule.NewGenerator(registry, repo, logger, schedule.OverlayOptions{
		IncludeApproved: cfg.Schedule.IncludeApproved,
	})

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		notifyChannel: notifyCh,
		redisClient:   rdb,
		registry:      registry,
		generator:     generator,
		logger:        logger,

		Mux: chi.NewRouter(),
	}, nil
}

// Registry exposes the snapshot registry so the api binary can refresh it
// on a schedule.
func (h *Handler) Registry() *schedule.Registry {
	return h.registry
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestLogger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// Everything below requires a logged-in user.
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)

		r.Route("/shift-types", func(r chi.Router) {
			r.Get("/", h.GetAllShiftTypes)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateShiftType)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftTypeInfo)
				r.Get("/", h.GetShiftType)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateShiftType)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeactivateShiftType)
			})
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.GetAllTemplates)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateTemplate)
			r.Get("/{id}", h.GetTemplate)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", h.GetSchedule)
			r.Get("/monthly", h.GetMonthlySchedule)
			r.Get("/daily", h.GetDailySchedule)
			r.Get("/statistics", h.GetScheduleStatistics)
			r.Get("/teams", h.GetTeamsByDay)
		})

		r.Route("/exceptions", func(r chi.Router) {
			r.Post("/", h.CreateException)
			r.Get("/", h.GetMyExceptions)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.exceptionInfo)
				r.Patch("/", h.UpdateException)
				r.Delete("/", h.CancelException)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/decision", h.DecideException)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteUser)
			})
		})
	})
}
