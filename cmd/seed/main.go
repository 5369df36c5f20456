package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/glossline/detailing-booking/backend/internal/availability"
	"github.com/glossline/detailing-booking/backend/internal/config"
	"github.com/glossline/detailing-booking/backend/internal/repository"
	"github.com/glossline/detailing-booking/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var (
		op   int
		n    int
		date string
	)

	flag.IntVar(&op, "op", 0, "operation (1: insert demo catalog, 2: insert random bookings)")
	flag.IntVar(&n, "n", 5, "number of bookings to insert")
	flag.StringVar(&date, "date", "", "booking date for -op 2, YYYY-MM-DD (default tomorrow)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("cannot load business timezone", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("cannot create database pool", slog.String("error", err.Error()))
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("cannot connect to database", slog.String("error", err.Error()))
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		logger.Error("no operation given")
	case 1:
		if err := seed.SeedCatalog(repo); err != nil {
			logger.Error("cannot seed catalog", slog.String("error", err.Error()))
		}
	case 2:
		if n <= 0 {
			logger.Error("number of bookings must be positive")
			return
		}
		if date == "" {
			date = time.Now().In(loc).AddDate(0, 0, 1).Format(availability.DateLayout)
		}

		created, err := seed.SeedBookings(repo, availability.NewEngine(loc), date, n)
		if err != nil {
			logger.Error("cannot seed bookings", slog.String("error", err.Error()))
		}
		logger.Info("bookings seeded", slog.String("date", date), slog.Int("count", created))
	default:
		logger.Error("unknown operation", slog.Int("op", op))
	}
}
