package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/personal-blog-cms/internal/api"
	"github.com/personal-blog-cms/internal/config"
	"github.com/personal-blog-cms/internal/database"
	"github.com/personal-blog-cms/internal/mail"
	"github.com/personal-blog-cms/internal/models"
	"github.com/personal-blog-cms/internal/repository"
	"github.com/personal-blog-cms/internal/service"
	"github.com/personal-blog-cms/pkg/logger"
)

func main() {
	// Load .env if present, before the logger reads LOG_LEVEL
	_ = godotenv.Load()

	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting blog CMS server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Initialize services
	notifier := mail.New(cfg.SMTP, log)
	services := service.NewServices(repos, cfg, log, notifier)

	// Seed the initial staff user when configured
	if err := seedAdminUser(repos, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin user")
	}

	// Start periodic session cleanup
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if _, err := services.Auth.CleanExpiredSessions(sweepCtx); err != nil {
					log.Error().Err(err).Msg("Session cleanup failed")
				}
			}
		}
	}()

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// seedAdminUser creates the staff principal named by ADMIN_USERNAME
// and ADMIN_PASSWORD when it does not exist yet. Without these
// variables the user set is left alone.
func seedAdminUser(repos *repository.Repositories, log zerolog.Logger) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing, err := repos.User.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	user := &models.User{Username: username, PasswordHash: hash, IsStaff: true}
	if err := repos.User.Create(ctx, user); err != nil {
		return err
	}

	log.Info().Str("username", username).Msg("Admin user created")
	return nil
}
