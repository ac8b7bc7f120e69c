// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "lena-bank/internal/api"
	"lena-bank/internal/api/handler"
	"lena-bank/internal/auth"
	"lena-bank/internal/config"
	"lena-bank/internal/repository"
	"lena-bank/internal/repository/postgres"
	"lena-bank/internal/service"
	"lena-bank/internal/util"
	"lena-bank/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	// LogLevel, when set before Initialize, overrides the configured level.
	LogLevel string

	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	AccountRepository repository.AccountRepository
	LedgerRepository  repository.LedgerRepository

	// Credential checks
	Verifier *auth.Verifier

	// Services
	MoneyService   service.MoneyService
	AccountService service.AccountService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize loads configuration from configPath (or the environment) and wires
// every component against a live database.
func (app *Application) Initialize(ctx context.Context, configPath string) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		// Keep a usable logger for the caller's error report.
		app.Logger = util.GetLogger()
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	if app.LogLevel != "" {
		cfg.LogLevel = app.LogLevel
	}
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.", "host", cfg.DB.Host, "dbname", cfg.DB.DBName)

	if cfg.Bank.AutoMigrate {
		if err := db.Migrate(ctx, app.DB); err != nil {
			return err
		}
		app.Logger.Info("Database schema applied.")
	}

	app.wire()
	return nil
}

// wire builds repositories, services and the HTTP handler on top of app.DB.
func (app *Application) wire() {
	// 4. Initialize Repositories
	app.AccountRepository = postgres.NewAccountRepository()
	app.LedgerRepository = postgres.NewLedgerRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	hasher := auth.NewBcryptHasher(app.Config.Bank.BcryptCost)
	app.Verifier = auth.NewVerifier(app.DB, app.AccountRepository, hasher, app.Config.Bank.MaxAttempts)

	// Pass the concrete transaction lifecycle functions from pkg/db
	rollbackTx := db.NewRollbackTx(app.Logger)
	app.MoneyService = service.NewMoneyService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.AccountRepository,
		app.LedgerRepository,
		app.Verifier,
		db.BeginTx,
		db.CommitTx,
		rollbackTx,
		service.HistoryPolicy{Limit: app.Config.Bank.HistoryLimit, Window: app.Config.Bank.HistoryWindow},
		app.Logger,
	)
	app.AccountService = service.NewAccountService(
		app.DB,
		app.DB,
		app.AccountRepository,
		app.LedgerRepository,
		app.Verifier,
		hasher,
		db.BeginTx,
		db.CommitTx,
		rollbackTx,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	accountHandler := handler.NewAccountHandler(app.AccountService, app.Logger)
	moneyHandler := handler.NewMoneyHandler(app.MoneyService, app.AccountService, app.Logger)
	app.HTTPHandler = router.NewRouter(accountHandler, moneyHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
