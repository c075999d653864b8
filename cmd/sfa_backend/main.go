package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	_ "github.com/scolaris/school_fees_app/cmd/docs"
	"github.com/scolaris/school_fees_app/internal/adapters/audit"
	"github.com/scolaris/school_fees_app/internal/core/domain"
	"github.com/scolaris/school_fees_app/internal/adapters/notify"
	"github.com/scolaris/school_fees_app/internal/adapters/render"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/core/services"
	"github.com/scolaris/school_fees_app/internal/dto"
	"github.com/scolaris/school_fees_app/internal/handlers"
	"github.com/scolaris/school_fees_app/internal/middleware"
	"github.com/scolaris/school_fees_app/internal/repositories/database/pgsql"
	"github.com/scolaris/school_fees_app/internal/utils"
	"github.com/scolaris/school_fees_app/pkg/config"
	"github.com/scolaris/school_fees_app/pkg/database"
)

// @title School Fees Backend API
// @version 1.0
// @description Invoice and payment ledger for school fee collection.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if cfg.RunMigrations {
		if err := runMigrations(cfg, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterCustomValidators(v); err != nil {
			logger.Error("Failed to register validators", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	r := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")

	posthogClient := utils.NewPosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint)
	if posthogClient != nil {
		defer posthogClient.Close()
	}

	// Global middleware (logging, recovery, CORS, rate limiting, analytics)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(corsConfig),
		middleware.RateLimitMiddleware(cfg.RateLimit),
		middleware.PosthogMiddleware(posthogClient),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories, external collaborators and services
	repos := pgsql.NewRepositoryProvider(dbPool)

	var renderer portssvc.ReceiptRenderer
	if cfg.ReceiptRendererURL != "" {
		renderer = render.NewWebhookRenderer(cfg.ReceiptRendererURL)
	}
	dispatcher := notify.NewSlogDispatcher(logger)
	auditSink := audit.NewRepositorySink(repos.AuditRepo)

	svc := services.NewServiceProvider(cfg, repos, renderer, dispatcher, auditSink)

	handlers.RegisterRoutes(r, cfg, svc)

	bootstrapAdminUser(context.Background(), cfg, svc, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for an interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server exited.")
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+cfg.MigrationsDir, "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// bootstrapAdminUser provisions the first ADMIN account from the environment
// so a fresh deployment can log in. A duplicate email is fine: the account
// already exists.
func bootstrapAdminUser(ctx context.Context, cfg *config.Config, svc *services.ServiceProvider, logger *slog.Logger) {
	email := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	password := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	_, err := svc.UserSvc.CreateUser(ctx, dto.CreateUserRequest{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	}, "bootstrap")
	if err != nil {
		logger.Warn("Bootstrap admin not created", slog.String("error", err.Error()))
		return
	}
	logger.Info("Bootstrap admin account created", slog.String("email", email))
}
