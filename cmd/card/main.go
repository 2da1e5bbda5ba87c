package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/marine-card/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/marine-card/internal/adapter/kafka"
	"github.com/couchcryptid/marine-card/internal/adapter/nws"
	"github.com/couchcryptid/marine-card/internal/archive"
	"github.com/couchcryptid/marine-card/internal/card"
	"github.com/couchcryptid/marine-card/internal/config"
	"github.com/couchcryptid/marine-card/internal/observability"
	"github.com/couchcryptid/marine-card/internal/pipeline"
	"github.com/couchcryptid/marine-card/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	engine, err := render.NewEngine(cfg, logger)
	if err != nil {
		logger.Error("failed to create render engine", "error", err)
		os.Exit(1)
	}

	composer, err := card.NewComposer(cfg, logger)
	if err != nil {
		logger.Error("failed to build card composer", "error", err)
		os.Exit(1)
	}

	deps := pipeline.Deps{
		Fetcher:  nws.NewClient(cfg, metrics, logger),
		Composer: composer,
		Renderer: render.NewRenderer(engine, cfg, metrics, logger),
	}

	// Run archive (feature-flagged via ARCHIVE_DB_PATH / ARCHIVE_ENABLED).
	var store *archive.Store
	if cfg.ArchiveEnabled {
		store, err = archive.Open(cfg.ArchivePath)
		if err != nil {
			logger.Error("failed to open run archive", "path", cfg.ArchivePath, "error", err)
			os.Exit(1)
		}
		deps.Archiver = store
		logger.Info("run archive enabled", "path", cfg.ArchivePath)
	} else {
		logger.Info("run archive disabled")
	}

	// Kafka publishing (feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED).
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, metrics, logger)
		deps.Publisher = publisher
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	gen := pipeline.New(deps, logger, metrics, cfg.RunInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One-shot mode: generate a single card and exit.
	if cfg.RunInterval <= 0 {
		_, runErr := gen.Run(ctx)
		closeSinks(store, publisher, logger)
		if runErr != nil {
			logger.Error("card generation failed", "error", runErr)
			os.Exit(1)
		}
		return
	}

	httpDeps := httpadapter.Deps{
		OutputDir: cfg.OutputDir,
		Ready:     gen,
		Cards:     gen,
	}
	if store != nil {
		httpDeps.History = store
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, httpDeps, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the generation loop.
	go func() {
		if err := gen.RunLoop(ctx); err != nil {
			logger.Error("generator error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	closeSinks(store, publisher, logger)

	logger.Info("shutdown complete")
}

// closeSinks closes the optional archive and publisher, logging failures.
func closeSinks(store *archive.Store, publisher *kafkaadapter.Publisher, logger *slog.Logger) {
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("archive close error", "error", err)
		}
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
}
