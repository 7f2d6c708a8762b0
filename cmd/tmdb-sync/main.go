package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filmoteka/database"
	"filmoteka/internal/config"
	"filmoteka/internal/http-api/repository"
	"filmoteka/internal/http-api/service"
	"filmoteka/internal/ingestion/tmdb"
	"filmoteka/internal/search"
)

func main() {
	once := flag.Bool("once", false, "run a single catalog pass and exit")
	interval := flag.Duration("interval", time.Hour, "pause between catalog passes")
	workers := flag.Int("workers", 4, "concurrent year workers")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.TMDBAPIKey == "" {
		fmt.Fprintln(os.Stderr, "TMDB_API_KEY is required")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("connect database", "error", err)
		os.Exit(1)
	}

	searchClient, err := search.NewClient(cfg.ElasticURL, cfg.ElasticIndex, logger)
	if err != nil {
		logger.Error("connect elasticsearch", "error", err)
		os.Exit(1)
	}

	movieRepo := repository.NewMovieRepository(db)
	userMovieRepo := repository.NewUserMovieRepository(db)
	movieService := service.NewMovieService(movieRepo, userMovieRepo, searchClient, nil)

	syncCfg := tmdb.SyncConfig{
		APIURL:       cfg.TMDBAPIURL,
		APIKey:       cfg.TMDBAPIKey,
		ProxyURL:     cfg.ProxyURL,
		WorkerCount:  *workers,
		SyncInterval: *interval,
	}
	if *once {
		syncCfg.SyncInterval = 0
	}

	syncService, err := tmdb.NewSyncService(syncCfg, movieRepo, movieService, logger)
	if err != nil {
		logger.Error("create sync service", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := syncService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("sync failed", "error", err)
		os.Exit(1)
	}
	logger.Info("sync finished")
}
