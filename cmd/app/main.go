package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookypedia/cmd"
	"bookypedia/internal/adapters/out/postgres"

	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	modeConsole = "console"
	modeHTTP    = "http"

	shutdownTimeout = 10 * time.Second
)

func main() {
	mode := flag.String("mode", modeConsole, "front end to run: console or http")
	flag.Parse()

	config := cmd.LoadConfig()
	logger := cmd.NewLogger(config, os.Stderr)
	slog.SetDefault(logger)

	db, err := openDatabase(config, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDatabase(db)

	if err = postgres.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	app := cmd.NewCompositionRoot(config, db, logger)

	switch *mode {
	case modeConsole:
		runConsole(context.Background(), app)
	case modeHTTP:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		startWebServer(ctx, app, config.HTTPPort, logger)
	default:
		log.Fatalf("Unknown mode %q, expected %q or %q", *mode, modeConsole, modeHTTP)
	}
}

func openDatabase(config cmd.Config, logger *slog.Logger) (*gorm.DB, error) {
	dsn, err := config.DSN()
	if err != nil {
		return nil, err
	}

	return gorm.Open(gorm_postgres.Open(dsn), postgres.NewGormConfig(logger))
}

func closeDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}

func runConsole(ctx context.Context, app cmd.CompositionRoot) {
	menu := app.CreateConsoleMenu(app.NewCatalog(), os.Stdin, os.Stdout)
	if err := menu.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("Console stopped: %v", err)
	}
}

func startWebServer(ctx context.Context, app cmd.CompositionRoot, port string, logger *slog.Logger) {
	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	e := app.CreateHTTPRouter()

	go func() {
		logger.Info("HTTP server listening", "port", port)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown: %v", err)
	}
}
