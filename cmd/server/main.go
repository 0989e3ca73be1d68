package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Drozast/restaurant-management-system-sub000/internal/config"
	"github.com/Drozast/restaurant-management-system-sub000/internal/event"
	"github.com/Drozast/restaurant-management-system-sub000/internal/infra"
	"github.com/Drozast/restaurant-management-system-sub000/internal/middleware"
	"github.com/Drozast/restaurant-management-system-sub000/internal/realtime"
	"github.com/Drozast/restaurant-management-system-sub000/internal/repository"
	"github.com/Drozast/restaurant-management-system-sub000/internal/router"
	"github.com/Drozast/restaurant-management-system-sub000/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev: pretty, prod: JSON
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	checklist, err := config.LoadChecklist(cfg.ChecklistPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load checklist")
	}

	db, err := infra.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("failed to open database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Event fan-out: WebSocket clients always, Redis pub/sub when configured.
	hub := realtime.NewHub()
	go hub.Run(ctx)
	sinks := []event.Sink{hub}

	var dispatcher *worker.Dispatcher
	if rdb != nil {
		sinks = append(sinks, event.NewRedisSink(rdb, cfg.EventChannel, infra.NewCircuitBreaker(infra.DefaultCBConfig())))
		dispatcher = worker.NewDispatcher(rdb)

		// Worker handlers are wired here so the pool sees every infrastructure dependency.
		var mailer worker.Mailer
		if m := infra.NewMailer(cfg); m != nil {
			mailer = m
		}
		handlers := map[string]worker.Processor{
			worker.JobReporteTurno: worker.NewReporteWorker(repository.NewTurnoRepository(db), dispatcher, cfg.PDFStoragePath, cfg.ReportEmail),
			worker.JobEmail:        worker.NewEmailWorker(mailer),
		}
		worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
	} else {
		log.Warn().Msg("REDIS_URL vacio: reportes PDF y pub/sub deshabilitados")
	}

	apiLimiter := middleware.APILimiter(1000, time.Minute)
	loginLimiter := middleware.LoginLimiter()
	go apiLimiter.Purge(ctx, 5*time.Minute)
	go loginLimiter.Purge(ctx, 5*time.Minute)

	r := router.New(router.Deps{
		Config:     cfg,
		DB:         db,
		Redis:      rdb,
		Hub:        hub,
		Sink:       event.Multi(sinks...),
		Dispatcher: dispatcher,
		Checklist:  checklist,
		Limiter:    apiLimiter,
		LoginLimit: loginLimiter,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("cocina backend listening on :%d", cfg.Port)
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
	cancel()
	log.Info().Msg("server exited")
}
