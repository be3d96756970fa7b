package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/contract-portal/api"
	"github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/audit"
	"github.com/frahmantamala/contract-portal/internal/auth"
	authPostgres "github.com/frahmantamala/contract-portal/internal/auth/postgres"
	"github.com/frahmantamala/contract-portal/internal/comment"
	commentPostgres "github.com/frahmantamala/contract-portal/internal/comment/postgres"
	"github.com/frahmantamala/contract-portal/internal/contract"
	contractPostgres "github.com/frahmantamala/contract-portal/internal/contract/postgres"
	"github.com/frahmantamala/contract-portal/internal/core/events"
	"github.com/frahmantamala/contract-portal/internal/permission"
	permissionPostgres "github.com/frahmantamala/contract-portal/internal/permission/postgres"
	"github.com/frahmantamala/contract-portal/internal/transport"
	"github.com/frahmantamala/contract-portal/internal/transport/middleware"
	"github.com/frahmantamala/contract-portal/internal/transport/rest"
	"github.com/frahmantamala/contract-portal/internal/user"
	userPostgres "github.com/frahmantamala/contract-portal/internal/user/postgres"
	"github.com/frahmantamala/contract-portal/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		deps.Logger.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.Env)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.EventBus.Wait()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	lg := deps.Logger
	base := transport.NewBaseHandler(lg)
	cfg := deps.Config

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.DB), tokens, cfg.Security.BCryptCost, lg)

	contractService := contract.NewService(contractPostgres.NewContractRepository(deps.Gorm), deps.EventBus, lg)
	commentService := comment.NewService(commentPostgres.NewCommentRepository(deps.Gorm), deps.EventBus, lg)
	permissionService := permission.NewService(permissionPostgres.NewPermissionRepository(deps.Gorm), deps.EventBus, lg)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), authService, deps.EventBus, lg)

	opts := rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         lg,
	}
	if cfg.Server.ValidateRequests {
		validator, err := middleware.NewOpenAPIValidator(api.Spec, base)
		if err != nil {
			return err
		}
		opts.Validator = validator
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:     rest.NewHealthHandler(deps.DB),
		Auth:       auth.NewHandler(base, authService),
		Contract:   contract.NewHandler(base, contractService),
		Comment:    comment.NewHandler(base, commentService),
		Permission: permission.NewHandler(base, permissionService),
		User:       user.NewHandler(base, userService),
	}, authService, opts)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Env, logger.Options{
		Level:  config.Observability.Logging.Level,
		Format: config.Observability.Logging.Format,
	})
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db, config.Env)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus := events.NewEventBus(lg)
	audit.NewLogger(lg).Register(bus)

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Gorm:     gdb,
		EventBus: bus,
		Router:   chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm reuses the sqlx pool so both layers share one set of connections.
func initGorm(db *sqlx.DB, env string) (*gorm.DB, error) {
	level := gormLogger.Warn
	if env != "production" {
		level = gormLogger.Info
	}

	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(level),
		TranslateError: true,
	})
}
