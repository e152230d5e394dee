package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/quattrodue/shift-planner/backend/internal/config"
	"github.com/quattrodue/shift-planner/backend/internal/domain"
	"github.com/quattrodue/shift-planner/backend/internal/repository"
	"github.com/quattrodue/shift-planner/backend/internal/schedule"
	"github.com/quattrodue/shift-planner/backend/internal/seed"
	"github.com/quattrodue/shift-planner/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "operation (1: seed predefined shift types and templates, 2: insert random users, 3: insert random exception requests)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("cannot create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not dial; ping to fail fast on a bad DSN.
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("cannot reach database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		seed.SeedPredefined(context.Background(), repo)
	case 2:
		if n <= 0 {
			slog.Error("user count must be positive")
			return
		}

		teams := seed.PredefinedFixedTemplate().Teams
		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain, teams)
			if err != nil {
				slog.Error("cannot generate random user", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(context.Background(), user); err != nil {
				slog.Error("cannot insert user", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("users inserted", slog.Int("count", n-cnt))
	case 3:
		registry := schedule.NewRegistry(repo, repo)
		generator := schedule.NewGenerator(registry, repo, logger, schedule.OverlayOptions{
			IncludeApproved: cfg.Schedule.IncludeApproved,
		})

		users, err := repo.GetAllUsers(context.Background())
		if err != nil {
			slog.Error("cannot fetch users", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for _, user := range users {
			if user.Team == "" {
				continue
			}

			exc := utils.GenerateRandomException(user, domain.ShiftRest)

			// Preserve the base-pattern shift for the chosen day so the
			// request stays reversible.
			baseDay, err := generator.GenerateSchedule(context.Background(), exc.Date, exc.Date, domain.TemplateFixed, user.Team)
			if err != nil {
				slog.Error("cannot resolve base shift", slog.String("error", err.Error()))
				continue
			}
			if len(baseDay) > 0 && baseDay[0].ShiftType != nil {
				exc.OriginalShiftType = *baseDay[0].ShiftType
			}

			if err := repo.CreateException(context.Background(), exc); err != nil {
				slog.Error("cannot insert exception", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("exception requests inserted", slog.Int("count", cnt))
	default:
		slog.Error("unknown operation")
	}
}
