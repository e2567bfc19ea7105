package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barpos/internal/config"
	"barpos/internal/drawer"
	"barpos/internal/infra"
	"barpos/internal/repository"
	"barpos/internal/router"
	"barpos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// The drawer reads its serial settings from the single-row app config and
	// falls back to simulation when no hardware responds.
	appConfigRepo := repository.NewAppConfigRepository(db)
	appCfg, err := appConfigRepo.Get(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load app config")
	}
	drawerSvc := drawer.New(appCfg)
	drawerSvc.Connect()
	defer drawerSvc.Close()

	// Start goroutine worker pool for async tasks (report PDFs, alert email).
	// Worker handlers are wired here (composition root) so that the pool has
	// full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	sessionRepo := repository.NewSessionRepository(db)

	workerHandlers := &worker.Handlers{
		ShiftReport: worker.NewShiftReportWorker(sessionRepo, appConfigRepo, cfg.PDFStoragePath),
		AlertEmail:  worker.NewAlertEmailWorker(mailer, cfg.PDFStoragePath),
	}
	worker.StartPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)
	worker.StartReportBackfill(ctx, worker.BackfillConfig{
		Sessions:    sessionRepo,
		Dispatcher:  worker.NewDispatcher(rdb),
		StoragePath: cfg.PDFStoragePath,
	})

	r := router.New(cfg, db, rdb, drawerSvc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("barpos backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
