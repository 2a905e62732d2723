package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/config"
	"github.com/Alex01Dev/backend-gerencia/internal/infra"
	"github.com/Alex01Dev/backend-gerencia/internal/router"
	"github.com/Alex01Dev/backend-gerencia/internal/service"
	"github.com/Alex01Dev/backend-gerencia/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Gerencia Gimnasio API
// @version 1.0
// @description Personas, usuarios, sucursales y transacciones del gimnasio.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis backs the statistics cache and the email queue. Without it the
	// API still serves; both features switch off.
	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable: stats cache and welcome emails disabled")
		rdb = nil
	}

	media, err := infra.NewFileStore(cfg.MediaStoragePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.MediaStoragePath).Msg("failed to prepare media storage")
	}

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to the infrastructure it needs.
	var (
		notificador service.Notificador
		pool        *worker.Pool
	)
	mailer := infra.NewMailer(cfg)
	if rdb != nil && mailer.Enabled() {
		notificador = worker.NewDispatcher(rdb)
		pool = worker.NewPool(rdb, map[string]worker.Processor{
			worker.JobBienvenida: worker.NewEmailWorker(mailer),
		})
		pool.Start(ctx, cfg.WorkerPoolSize)
	} else {
		log.Info().Msg("welcome emails disabled (needs SMTP_HOST and redis)")
	}

	r := router.New(cfg, router.Deps{DB: db, Redis: rdb, Media: media, Notificador: notificador})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("gerencia backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if pool != nil {
		pool.Wait()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
