package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commander-deck-service/internal/config"
	"commander-deck-service/internal/deckgen"
	"commander-deck-service/internal/domain/ports/repository"
	"commander-deck-service/internal/infra/adapters/catalog"
	pg "commander-deck-service/internal/infra/db/postgres"
	"commander-deck-service/internal/infra/logging"
	"commander-deck-service/internal/infra/metrics"
	red "commander-deck-service/internal/infra/redis"
	"commander-deck-service/internal/infra/web"
	"commander-deck-service/internal/infra/worker"
	"commander-deck-service/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	jobStore := red.NewJobStore(redisClient)

	// ---- Card catalog (optional Postgres) ----
	var cardCatalog repository.CardCatalog = catalog.NewNoopCatalog()
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres")
		}
		defer pool.Close()
		cardCatalog = pg.NewCardCatalogRepo(pool)
		logger.Info().Msg("card catalog: postgres")
	} else {
		logger.Info().Msg("card catalog: noop (pool entries must be complete)")
	}

	// ---- Scoring tables ----
	tables := deckgen.DefaultTables()
	if cfg.Scoring.TablesPath != "" {
		tables, err = deckgen.LoadTables(cfg.Scoring.TablesPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("scoring tables")
		}
		logger.Info().Str("path", cfg.Scoring.TablesPath).Msg("scoring tables loaded")
	}

	// ---- Use cases ----
	submitUC := usecase.NewSubmitUseCase(jobStore, cfg.Worker.JobTTL, logger)
	relayUC := usecase.NewRelayUseCase(jobStore, cfg.Server.StreamPollInterval, logger)

	// ---- Worker loop ----
	pool := worker.NewPool(cfg.Worker.Workers, logger)
	pool.Start(ctx)
	processor := worker.NewDeckJobProcessor(
		jobStore, cardCatalog, tables, logger,
		cfg.Worker.PollInterval, cfg.Worker.ClaimTTL, cfg.Worker.ResultTTL,
	)
	go processor.Start(ctx, pool)

	// ---- HTTP ----
	server := web.NewServer(submitUC, relayUC, logger)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Routes(),
	}
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	cancel()
	pool.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
