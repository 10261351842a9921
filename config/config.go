// Package config provides configuration structures and validation for the
// statement engine: HTTP server, logging, the ledger source backend and the
// pending sweep worker pool.
package config

import (
	"errors"
	"strings"
	"time"
)

// Ledger backends accepted in LEDGER_BACKEND.
const (
	BackendXLSX   = "xlsx"
	BackendSQLite = "sqlite"
)

// Config holds the complete application configuration.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Ledger      LedgerConfig
	WorkerPool  WorkerPoolConfig
	Sweep       SweepConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// LedgerConfig selects where client ledgers are read from.
type LedgerConfig struct {
	Backend      string // xlsx or sqlite
	Dir          string // workbook directory (xlsx backend, and -import source)
	Sheet        string // ledger sheet name inside each workbook
	SummarySheet string
	SQLitePath   string
}

// WorkerPoolConfig contains the pending sweep pool size
type WorkerPoolConfig struct {
	Size int
}

// SweepConfig drives the scheduled pending sweep of the server.
type SweepConfig struct {
	Enabled       bool
	CheckInterval time.Duration
	OutputDir     string // pending workbooks are written here when set

	// ClosingFromSummary closes ledgers on their last issued statement
	// instead of their latest reporting date.
	ClosingFromSummary bool
}

// Validate checks every value and reports all problems at once.
func (c *Config) Validate() error {
	var validationErrors []string

	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		validationErrors = append(validationErrors, "LOG_LEVEL must be one of debug, info, warn, error")
	}

	switch c.Ledger.Backend {
	case BackendXLSX:
		if c.Ledger.Dir == "" {
			validationErrors = append(validationErrors, "LEDGER_DIR is required for the xlsx backend")
		}
	case BackendSQLite:
		if c.Ledger.SQLitePath == "" {
			validationErrors = append(validationErrors, "SQLITE_PATH is required for the sqlite backend")
		}
	default:
		validationErrors = append(validationErrors, "LEDGER_BACKEND must be xlsx or sqlite")
	}

	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if c.Sweep.Enabled && c.Sweep.CheckInterval <= 0 {
		validationErrors = append(validationErrors, "SWEEP_CHECK_INTERVAL must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}
	return nil
}
