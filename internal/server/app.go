// Package server wires the accounts server: configuration, logging, the
// PostgreSQL store and its migrations, the login throttle, picture storage,
// the gRPC endpoint and the Prometheus endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/addonaccounts/internal/logging"
	"github.com/dmitrijs2005/addonaccounts/internal/server/config"
	"github.com/dmitrijs2005/addonaccounts/internal/server/metrics"
	"github.com/dmitrijs2005/addonaccounts/internal/server/ratelimit"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/addonaccounts/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/addonaccounts/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	userService  *services.UserService
	notesService *services.ReviewNotesService

	migrate func(ctx context.Context, db *sql.DB) error
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.New(c.Logger, false)
	if err != nil {
		return nil, err
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	m := metrics.New()
	pictures := services.NewPictureService(c)

	us := services.NewUserService(db, rm, c,
		services.WithLimiter(ratelimit.New(c.RedisAddr, c.MaxLoginAttempts, c.LoginAttemptWindow)),
		services.WithMetrics(m),
		services.WithLogger(logger.With("module", "user_service")),
		services.WithPictureSigner(pictures),
		services.WithPictureUploader(pictures),
	)
	ns := services.NewReviewNotesService(db, rm, m, logger.With("module", "review_notes"))

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		metrics:      m,
		userService:  us,
		notesService: ns,
		migrate:      rm.RunMigrations,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run applies migrations and serves until ctx is cancelled, a signal
// arrives or one of the endpoints fails.
func (app *App) Run(ctx context.Context) error {
	defer app.db.Close()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if err := app.migrate(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	srv := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.notesService, app.config.SecretKey)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if app.config.MetricsAddr != "" {
		ms := metrics.NewServer(app.config.MetricsAddr, app.metrics)
		g.Go(func() error {
			return ms.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "Server stopped")
	return nil
}
