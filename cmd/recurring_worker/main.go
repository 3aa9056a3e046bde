package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fireflow/fireflow_backend/internal/adapters/messaging/rabbitmq"
	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/core/services"
	"github.com/fireflow/fireflow_backend/internal/middleware"
	"github.com/fireflow/fireflow_backend/internal/platform/config"
	"github.com/fireflow/fireflow_backend/internal/repositories/database/pgsql"
	"github.com/fireflow/fireflow_backend/pkg/database"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

func main() {
	once := flag.Bool("once", false, "run a single catch-up pass and exit")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		logger.Error("PGSQL_URL is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		SimpleProtocol:  cfg.DBSimpleProtocol,
		CheckConnection: cfg.EnableDBCheck,
	})
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			logger.Error("Failed to run database migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	var (
		publisher     portssvc.OccurrencePublisher
		amqpPublisher *rabbitmq.Publisher
	)
	if cfg.AMQPURL != "" {
		amqpPublisher, err = rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			// Occurrences are still generated; only the announcements are lost.
			logger.Warn("Failed to connect to AMQP broker, continuing without publishing", slog.String("error", err.Error()))
			amqpPublisher = nil
		} else {
			defer amqpPublisher.Close()
			publisher = amqpPublisher
		}
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	processor := services.NewServiceContainer(cfg, repos, publisher).RecurringProcessor

	logger.Info("Recurring worker configured",
		slog.Duration("interval", cfg.RecurringInterval),
		slog.String("timezone", cfg.RecurringLocation.String()),
		slog.Bool("once", *once))

	if *once {
		if err := runPass(ctx, processor, logger, time.Now()); err != nil {
			os.Exit(1)
		}
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(cfg.RecurringInterval)
		defer ticker.Stop()

		// A failed pass is retried on the next tick
		_ = runPass(gctx, processor, logger, time.Now())
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				_ = runPass(gctx, processor, logger, now)
			}
		}
	})

	if amqpPublisher != nil {
		g.Go(func() error {
			<-gctx.Done()
			// Close blocks until a pass that is still publishing has finished.
			if err := amqpPublisher.Close(); err != nil {
				logger.Warn("Failed to close AMQP publisher", slog.String("error", err.Error()))
			}
			logger.Info("AMQP publisher drained and closed")
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Recurring worker stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Recurring worker shutdown complete")
}

// runPass executes one catch-up under a run-scoped logger.
func runPass(ctx context.Context, processor portssvc.RecurringProcessorSvc, baseLogger *slog.Logger, now time.Time) error {
	logger := baseLogger.With(slog.String("run_id", uuid.NewString()))
	ctx = middleware.WithLogger(ctx, logger)

	start := time.Now()
	summary, err := processor.RunCatchUp(ctx, now)
	if err != nil {
		logger.Error("Recurring catch-up failed", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Recurring catch-up complete",
		slog.String("today", summary.Today.Format(time.DateOnly)),
		slog.Int("templates_checked", summary.TemplatesChecked),
		slog.Int("templates_processed", summary.TemplatesProcessed),
		slog.Int("templates_failed", summary.TemplatesFailed),
		slog.Int("templates_skipped", summary.TemplatesSkipped),
		slog.Int("templates_deactivated", summary.TemplatesDeactivated),
		slog.Int("transactions_created", summary.TransactionsCreated),
		slog.Duration("duration", time.Since(start)))
	return nil
}
