package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	authapp "github.com/mohammadpnp/employee-registry/internal/application/auth"
	app "github.com/mohammadpnp/employee-registry/internal/application/employee"
	"github.com/mohammadpnp/employee-registry/internal/bootstrap"
	"github.com/mohammadpnp/employee-registry/internal/config"
	infradb "github.com/mohammadpnp/employee-registry/internal/infrastructure/db"
	"github.com/mohammadpnp/employee-registry/internal/infrastructure/notification"
	"github.com/mohammadpnp/employee-registry/internal/infrastructure/repository"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := infradb.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.WithError(err).Fatal("migrations failed")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to create pgx pool")
	}
	defer pool.Close()

	tokens := authapp.NewTokenService(authapp.TokenServiceConfig{
		Secret:         []byte(cfg.JWTSecret),
		Issuer:         cfg.JWTIssuer,
		AccessTokenTTL: cfg.AccessTokenTTL,
	})

	mailer := notification.NewSMTPMailer(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	})

	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	ledger := repository.NewBatchHistoryRepository(db)
	batches := repository.NewBatchRepository(pool)

	reporter := app.NewBatchReporter(ledger, userRepo, mailer)
	registerJob := app.NewRegisterEmployee(employeeRepo, ledger, batches)

	worker := app.NewImportWorker(batches, registerJob, reporter, app.ImportWorkerConfig{
		Workers:       cfg.ImportWorkers,
		PollInterval:  cfg.ImportPollInterval,
		LeaseDuration: cfg.ImportLeaseDuration,
	})

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	worker.Start(workerCtx)

	server := bootstrap.NewHTTPServer(cfg, db, pool, tokens, reporter)

	go func() {
		if err := server.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("graceful shutdown failed")
	}
}
