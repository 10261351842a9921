// Package store opens the configured ledger source.
package store

import (
	"fmt"

	"github.com/warp/site-statement/config"
	"github.com/warp/site-statement/generic"
	"github.com/warp/site-statement/store/sqlite"
	"github.com/warp/site-statement/store/xlsx"
)

// Open returns the source selected by cfg.Backend and a function releasing it.
func Open(cfg config.LedgerConfig) (generic.Source, func() error, error) {
	switch cfg.Backend {
	case config.BackendXLSX:
		return xlsx.New(cfg.Dir, WorkbookOptions(cfg)), func() error { return nil }, nil
	case config.BackendSQLite:
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}

// WorkbookOptions maps the sheet names of cfg onto the workbook loader.
func WorkbookOptions(cfg config.LedgerConfig) xlsx.Options {
	return xlsx.Options{LedgerSheet: cfg.Sheet, SummarySheet: cfg.SummarySheet}
}
