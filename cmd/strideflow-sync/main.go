package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/strideflow/strideflow/internal/config"
	"github.com/strideflow/strideflow/internal/provider"
	"github.com/strideflow/strideflow/internal/storage"
	"github.com/strideflow/strideflow/internal/sync"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	only := flag.String("only", "", "sync a subset: 'activities' or 'daily' (default: everything)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("strideflow-sync", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if !cfg.Garmin.Configured() {
		log.Error("garmin credentials are required for sync")
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var tokens *provider.TokenStore
	if cfg.Garmin.TokenDir != "" {
		tokens, err = provider.OpenTokenStore(cfg.Garmin.TokenDir)
		if err != nil {
			log.Warn("token store unavailable, logging in fresh", "error", err)
		} else {
			defer tokens.Close()
		}
	}

	client, err := provider.NewGarmin(ctx, cfg.Garmin.Username, cfg.Garmin.Password, tokens, log)
	if err != nil {
		log.Error("garmin login failed", "error", err)
		os.Exit(1)
	}

	syncer := sync.New(db, client, log)

	var res sync.Result
	switch *only {
	case "":
		res, err = syncer.SyncAll(ctx)
	case "activities":
		err = syncer.SyncActivities(ctx, &res)
	case "daily":
		err = syncer.SyncDaily(ctx, &res)
	default:
		fmt.Fprintf(os.Stderr, "unknown -only value %q (want 'activities' or 'daily')\n", *only)
		os.Exit(1)
	}
	if err != nil {
		log.Error("sync failed", "error", err)
		os.Exit(1)
	}

	log.Info("sync complete",
		"activities_new", res.ActivitiesNew,
		"activities_skipped", res.ActivitiesSkipped,
		"activities_failed", res.ActivitiesFailed,
		"health_days", res.HealthDays,
		"sleep_days", res.SleepDays,
		"days_failed", res.DaysFailed,
	)
}
