package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/config"
	"github.com/jmsleo/kreasiPOS/internal/infra"
	"github.com/jmsleo/kreasiPOS/internal/repository"
	"github.com/jmsleo/kreasiPOS/internal/router"
	"github.com/jmsleo/kreasiPOS/internal/worker"

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

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Worker pool and low-stock sweep run for the life of the process.
	// Worker handlers are wired here (composition root) so the pool has full
	// access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewBreaker(infra.MailerBreakerConfig())
	dispatcher := worker.NewDispatcher(rdb)

	saleRepo := repository.NewSaleRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	materialRepo := repository.NewRawMaterialRepository(db)

	workerHandlers := worker.Handlers{
		Receipt: worker.NewReceiptWorker(saleRepo, tenantRepo, mailer, smtpCB, cfg.PDFStoragePath),
		Email:   worker.NewEmailWorker(mailer, smtpCB),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, workerHandlers)

	worker.StartLowStockCron(ctx, worker.LowStockCronConfig{
		TenantRepo:      tenantRepo,
		RawMaterialRepo: materialRepo,
		Dispatcher:      dispatcher,
		RDB:             rdb,
		Interval:        time.Duration(cfg.LowStockSweepMinutes) * time.Minute,
	})

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("kreasiPOS backend listening on :%d", cfg.Port)
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
