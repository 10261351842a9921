package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from "<name>.env" (in ./configs, then .) and the
// environment. Layers, lowest first:
// 1. defaults
// 2. config file values (if found)
// 3. environment variables
// The result is validated before it is returned.
func Load(name string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(name + ".env")
	v.SetConfigType("env")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	v.AutomaticEnv()

	cfg := &Config{
		Application: ApplicationConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Ledger: LedgerConfig{
			Backend:      v.GetString("LEDGER_BACKEND"),
			Dir:          v.GetString("LEDGER_DIR"),
			Sheet:        v.GetString("LEDGER_SHEET"),
			SummarySheet: v.GetString("SUMMARY_SHEET"),
			SQLitePath:   v.GetString("SQLITE_PATH"),
		},
		WorkerPool: WorkerPoolConfig{
			Size: v.GetInt("WORKER_POOL_SIZE"),
		},
		Sweep: SweepConfig{
			Enabled:       v.GetBool("SWEEP_ENABLED"),
			CheckInterval: v.GetDuration("SWEEP_CHECK_INTERVAL"),
			OutputDir:     v.GetString("SWEEP_OUTPUT_DIR"),

			ClosingFromSummary: v.GetBool("SWEEP_CLOSING_FROM_SUMMARY"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "site-statement")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	// workbook exports of large ledgers take a while to stream
	v.SetDefault("SERVER_WRITE_TIMEOUT", 60*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)

	v.SetDefault("LEDGER_BACKEND", BackendXLSX)
	v.SetDefault("LEDGER_DIR", "./ledgers")
	v.SetDefault("LEDGER_SHEET", "LEDGER")
	v.SetDefault("SUMMARY_SHEET", "SUMMARY")
	v.SetDefault("SQLITE_PATH", "ledgers.db")

	v.SetDefault("WORKER_POOL_SIZE", 8)

	v.SetDefault("SWEEP_ENABLED", false)
	v.SetDefault("SWEEP_CHECK_INTERVAL", time.Hour)
	v.SetDefault("SWEEP_OUTPUT_DIR", "")
	v.SetDefault("SWEEP_CLOSING_FROM_SUMMARY", false)
}
