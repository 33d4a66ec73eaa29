package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/expense-tracker/internal/category/postgres"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	expensePostgres "github.com/frahmantamala/expense-tracker/internal/expense/postgres"
	"github.com/frahmantamala/expense-tracker/internal/messaging"
	"github.com/frahmantamala/expense-tracker/internal/report"
	reportPostgres "github.com/frahmantamala/expense-tracker/internal/report/postgres"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/internal/transport/rest"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startHTTPServer(); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

type Dependencies struct {
	Config    *internal.Config
	DB        *sqlx.DB
	Gorm      *gorm.DB
	Bus       *events.EventBus
	Forwarder *messaging.Client
	Router    *chi.Mux
	Logger    *slog.Logger

	CategoryService *category.Service
}

func startHTTPServer() error {
	deps, err := initializeDependencies()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Logger.Info("starting HTTP server", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		deps.Logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	deps.Logger.Info("server stopped")
	return nil
}

func setupRoutes(deps *Dependencies) {
	base := transport.NewBaseHandler(deps.Logger, deps.Config.App.Debug)
	queryTimeout := deps.Config.Database.QueryTimeout

	expenseService := expense.NewService(
		expensePostgres.NewExpenseRepository(deps.Gorm),
		deps.CategoryService,
		deps.Bus,
		deps.Logger,
		queryTimeout,
	)
	reportService := report.NewService(
		reportPostgres.NewReportRepository(deps.DB),
		deps.Logger,
		queryTimeout,
	)

	health := rest.NewHealthHandler(deps.DB)
	if deps.Forwarder != nil {
		health.WithComponent("broker", deps.Forwarder)
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Category: category.NewHandler(base, deps.CategoryService),
		Expense:  expense.NewHandler(base, expenseService),
		Report:   report.NewHandler(base, reportService),
		Health:   health,
	}, rest.Options{Logger: deps.Logger, Debug: deps.Config.App.Debug})
}

func initializeDependencies() (*Dependencies, error) {
	config, lg := mustLoad()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db, config.App.Debug)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	deps := &Dependencies{
		Config: config,
		DB:     db,
		Gorm:   gormDB,
		Bus:    events.NewEventBus(lg),
		Router: chi.NewRouter(),
		Logger: lg,
	}

	if config.Events.Enabled() {
		forwarder, err := messaging.Dial(config.Events.AMQPURL, config.Events.Exchange, "", lg)
		if err != nil {
			// The API stays usable without the broker; events remain in-process.
			lg.Warn("event forwarding disabled", "error", err)
		} else {
			forwarder.Attach(deps.Bus)
			deps.Forwarder = forwarder
		}
	}

	deps.CategoryService = category.NewService(
		categoryPostgres.NewCategoryRepository(gormDB),
		deps.Bus,
		lg,
		config.Database.QueryTimeout,
	)

	return deps, nil
}

// Close drains pending event handlers, then releases the broker and the pool.
func (d *Dependencies) Close() {
	if d.Bus != nil {
		d.Bus.Wait()
	}
	if d.Forwarder != nil {
		if err := d.Forwarder.Close(); err != nil {
			d.Logger.Error("event forwarder close error", "error", err)
		}
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Error("database close error", "error", err)
		}
	}
}

// initDB opens the pgx pool shared by sqlx and gorm
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

func initGorm(db *sqlx.DB, debug bool) (*gorm.DB, error) {
	level := gormLogger.Silent
	if debug {
		level = gormLogger.Info
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(level),
		TranslateError: true,
	})
}
