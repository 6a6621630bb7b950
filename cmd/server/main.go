package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"kompas/internal/auth"
	"kompas/internal/cache"
	"kompas/internal/config"
	"kompas/internal/db"
	"kompas/internal/handlers"
	"kompas/internal/jobs"
	"kompas/internal/logger"
	mw "kompas/internal/middleware"
	"kompas/internal/services"
	"kompas/internal/storage"
	"kompas/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger needs the config, so this one goes to stderr.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.RunMigrations(ctx, conn); err != nil {
		return err
	}
	log.Info("database ready")

	enc, err := services.NewEncryptionService(cfg.EncryptionKey, cfg.BlindIndexKey)
	if err != nil {
		return err
	}
	st := store.New(conn, enc)
	c := cache.New(ctx, cfg, log)

	buckets, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer buckets.Close()

	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	revoker := auth.NewRevoker(c)
	var google handlers.GoogleSignIn
	if cfg.GoogleEnabled() {
		google = auth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, c)
		log.Info("google sign-in enabled")
	}

	sh := handlers.Shared{Log: log, Cache: c, CacheTTL: cfg.CacheTTL, Location: cfg.Timezone}
	api := handlers.API{
		Log:         log,
		Health:      st,
		CORSOrigins: cfg.CORSAllowedOrigins,
		Auth:        mw.NewAuthMiddleware(tokens, revoker, log),
		RateLimit:   mw.NewRateLimiter(cfg.RateLimitPerMinute),

		Users:      handlers.NewAuthHandler(sh, st, tokens, revoker, google, cfg.FrontendURL),
		Profile:    handlers.NewProfileHandler(sh, st, buckets.Avatars),
		Compass:    handlers.NewCompassHandler(sh, st),
		Stats:      handlers.NewStatsHandler(sh, st),
		Essays:     handlers.NewEssayHandler(sh, st),
		FirstTimes: handlers.NewFirstTimeHandler(sh, st),
		Wishes:     handlers.NewWishHandler(sh, st),
		Photos:     handlers.NewPhotoHandler(sh, st, buckets.MonthlyPhotos),
		Fitness:    handlers.NewFitnessHandler(sh, st),
		English:    handlers.NewEnglishHandler(sh, st),
		Actions:    handlers.NewActionHandler(sh, st),
	}
	if cfg.StorageDriver == "local" {
		api.UploadDir = cfg.UploadDir
	}

	refresher := &jobs.StreakRefresher{
		Store:    st,
		Cache:    c,
		Location: cfg.Timezone,
		Interval: cfg.StreakRefreshInterval,
		Log:      log.Named("streaks"),
	}
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	jobDone := make(chan struct{})
	go func() {
		defer close(jobDone)
		refresher.Run(jobCtx)
	}()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handlers.NewRouter(api),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown initiated")
	case err := <-serveErr:
		cancelJobs()
		<-jobDone
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", zap.Error(err))
	}
	cancelJobs()
	<-jobDone
	log.Info("server stopped")
	return nil
}
