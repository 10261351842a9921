/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the site statement HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (local development) and configuration
  2. Build the JSON logger
  3. Open the ledger source (workbook directory or SQLite)
  4. Create API handler, sweep scheduler and router
  5. Start server with graceful shutdown

CONFIGURATION:
  See config/load.go. The most used keys:
    LEDGER_BACKEND   xlsx (default) or sqlite
    LEDGER_DIR       workbook directory (default ./ledgers)
    SQLITE_PATH      database imported with `statement -import`
    SERVER_PORT      default 8080
    LOG_LEVEL        debug, info, warn, error

COMMAND-LINE FLAGS:
  -config  config file base name, looked up as <name>.env (default: app)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the sweep scheduler, then stop accepting new connections
  2. Wait for active requests to complete (SERVER_SHUTDOWN_TIMEOUT)
  3. Close the ledger source
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/open.go: Source selection
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/warp/site-statement/api"
	"github.com/warp/site-statement/config"
	"github.com/warp/site-statement/logger"
	"github.com/warp/site-statement/store"
)

func main() {
	configName := flag.String("config", "app", "config file base name (<name>.env)")
	flag.Parse()

	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	cfg, err := config.Load(*configName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		os.Exit(1)
	}

	logg := logger.New(cfg.Logging)
	log := logg.WithField("app", cfg.Application.Name)

	source, closeSource, err := store.Open(cfg.Ledger)
	if err != nil {
		log.WithError(err).Fatal("failed to open ledger source")
	}
	defer closeSource()

	handler := api.NewHandler(source, cfg.WorkerPool.Size, log)
	handler.Scanner.ClosingFromSummary = cfg.Sweep.ClosingFromSummary
	scheduler := api.NewSweepScheduler(handler.Scanner, cfg.Sweep, log)
	handler.Scheduler = scheduler
	router := api.NewRouter(handler, nil)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	scheduler.Start()

	// Start server in goroutine
	go func() {
		log.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"backend": cfg.Ledger.Backend,
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server stopped")
}
