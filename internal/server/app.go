// Package server assembles and runs the Distillr development backend: the
// Functions gRPC endpoint and, when configured, the metrics/health HTTP
// endpoint.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/distillr/internal/logging"
	"github.com/dmitrijs2005/distillr/internal/server/config"
	"github.com/dmitrijs2005/distillr/internal/server/httpapi"
	"github.com/dmitrijs2005/distillr/internal/server/metrics"
	"github.com/dmitrijs2005/distillr/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/distillr/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/distillr/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	metrics     *metrics.Metrics
	accounts    *services.AccountService
	distiller   *services.DistillService
	payments    *services.PaymentService
}

// NewApp opens storage (PostgreSQL when a DSN is set, memory otherwise),
// runs migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	var rm repomanager.RepositoryManager
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "No database DSN configured, state is kept in memory")
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		pg, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = pg
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return newApp(c, logger, rm, services.NewSummarizer(c.FetchTimeout)), nil
}

func newApp(c *config.Config, logger logging.Logger, rm repomanager.RepositoryManager, summarizer services.PageSummarizer) *App {
	accounts := services.NewAccountService(rm, c)
	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		metrics:     metrics.New(),
		accounts:    accounts,
		distiller:   services.NewDistillService(accounts, summarizer),
		payments:    services.NewPaymentService(c),
	}
}

func (app *App) health(ctx context.Context) error {
	db, ok := app.repomanager.DB().(interface {
		PingContext(ctx context.Context) error
	})
	if !ok {
		return nil
	}
	return db.PingContext(ctx)
}

// Run serves until SIGINT/SIGTERM/SIGQUIT, ctx cancellation, or the first
// server failure, then releases storage.
func (app *App) Run(ctx context.Context) error {

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer func() {
		if err := app.repomanager.Close(); err != nil {
			app.logger.Error(context.Background(), "Closing storage failed", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.metrics,
		app.accounts, app.distiller, app.payments, app.config.SecretKey)
	g.Go(func() error {
		return grpcServer.Run(ctx)
	})

	if app.config.EndpointAddrHTTP != "" {
		httpServer := httpapi.NewServer(app.config.EndpointAddrHTTP,
			httpapi.NewRouter(app.metrics.Registry(), app.health), app.logger)
		g.Go(func() error {
			return httpServer.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		app.logger.Error(context.Background(), "Server stopped", "error", err.Error())
		return err
	}

	app.logger.Info(context.Background(), "App stopped")
	return nil
}
