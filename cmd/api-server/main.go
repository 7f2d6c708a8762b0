package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"filmoteka/database"
	"filmoteka/internal/cache"
	"filmoteka/internal/config"
	"filmoteka/internal/http-api/handler"
	"filmoteka/internal/http-api/middleware"
	"filmoteka/internal/http-api/repository"
	"filmoteka/internal/http-api/service"
	"filmoteka/internal/search"
	"filmoteka/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	// Cache is optional: a nil *cache.Cache degrades to direct reads.
	redisCache, err := cache.New(cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	searchClient, err := search.NewClient(cfg.ElasticURL, cfg.ElasticIndex, logger)
	if err != nil {
		return fmt.Errorf("connect elasticsearch: %w", err)
	}

	blobStore, err := storage.NewBlobStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("connect blob store: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	customMovieRepo := repository.NewCustomMovieRepository(db)
	userMovieRepo := repository.NewUserMovieRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	yandexService := service.NewYandexAuthService(cfg.YandexInfoURL)
	customMovieService := service.NewCustomMovieService(customMovieRepo)
	collectionService := service.NewCollectionService(userMovieRepo, movieRepo, customMovieService)
	movieService := service.NewMovieService(movieRepo, userMovieRepo, searchClient, redisCache)
	recommendService := service.NewRecommendService(userMovieRepo, movieRepo, redisCache, service.DefaultRecommendConfig())
	imageService, err := service.NewImageService(blobStore, cfg.TMDBImageAPIURL, cfg.ProxyURL, logger)
	if err != nil {
		return fmt.Errorf("create image service: %w", err)
	}
	metadataService := service.NewMetadataService(imageService)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, yandexService)
	userHandler := handler.NewUserHandler(userRepo)
	movieHandler := handler.NewMovieHandler(movieService, recommendService, metadataService)
	collectionHandler := handler.NewCollectionHandler(collectionService)
	imageHandler := handler.NewImageHandler(imageService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	authHandler.RegisterRoutes(api.Group("/auth"))

	authed := api.Group("/")
	authed.Use(middleware.AuthMiddleware(authService))
	imageHandler.RegisterRoutes(api.Group("/images"), authed.Group("/images"))
	userHandler.RegisterRoutes(authed.Group("/user"))
	movieHandler.RegisterRoutes(authed.Group("/movies"))
	collectionHandler.RegisterRoutes(authed.Group("/collection"))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
