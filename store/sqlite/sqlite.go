/*
Package sqlite provides a SQLite-backed ledger source.

PURPOSE:
  Workbooks are slow to open and easy to lock. ImportLedger copies the raw
  content of a ledger (header, cell text, summary table, client header) into
  SQLite once; LoadLedger then hands the same RawLedger back without touching
  the workbook. The statement core cannot tell the two sources apart.

RAW, NOT PARSED:
  Cells are stored as the loader read them. Parsing stays in the normalizer,
  so a ledger produces the same statement whichever source it came from.

KEY TABLES:
  ledgers:        one row per client ledger (header columns as JSON, client)
  ledger_records: one row per ledger row, cells as a JSON object
  summary_rows:   the summary table of issued statements

RE-IMPORT:
  Importing a ledger again replaces it entirely inside one transaction.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In-memory databases are pinned to a
  single connection, since every new connection to ":memory:" would open a
  fresh, empty database.

USAGE:
  store, err := sqlite.New("./data/ledgers.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  raw, _ := xlsx.New("./ledgers", xlsx.Options{}).LoadLedger(ctx, "obra-a")
  err = store.ImportLedger(ctx, raw)

SEE ALSO:
  - generic/store.go: Source port
  - store/xlsx: workbook source the imports usually come from
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/site-statement/generic"
)

// Store implements generic.Source using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ledgers (
		name TEXT PRIMARY KEY,
		client_name TEXT,
		client_address TEXT,
		columns_json TEXT NOT NULL,
		imported_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ledger_records (
		ledger TEXT NOT NULL REFERENCES ledgers(name) ON DELETE CASCADE,
		row_no INTEGER NOT NULL,
		cells_json TEXT NOT NULL,
		PRIMARY KEY (ledger, row_no)
	);

	CREATE TABLE IF NOT EXISTS summary_rows (
		ledger TEXT NOT NULL REFERENCES ledgers(name) ON DELETE CASCADE,
		row_no INTEGER NOT NULL,
		label TEXT,
		date TEXT,
		number TEXT,
		PRIMARY KEY (ledger, row_no)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportLedger stores raw under raw.Name, replacing any previous import.
func (s *Store) ImportLedger(ctx context.Context, raw generic.RawLedger) error {
	if raw.Name == "" {
		return errors.New("ledger name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	columnsJSON, err := json.Marshal(raw.Columns)
	if err != nil {
		return fmt.Errorf("failed to encode columns: %w", err)
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM ledgers WHERE name = ?", raw.Name); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}

	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO ledgers (name, client_name, client_address, columns_json, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`, raw.Name, raw.Client.Name, raw.Client.Address, string(columnsJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert ledger: %w", err)
	}

	for i, rec := range raw.Records {
		cellsJSON, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode row %d: %w", i+1, err)
		}
		_, err = sqlTx.ExecContext(ctx,
			"INSERT INTO ledger_records (ledger, row_no, cells_json) VALUES (?, ?, ?)",
			raw.Name, i+1, string(cellsJSON),
		)
		if err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}

	for i, row := range raw.Summary {
		_, err := sqlTx.ExecContext(ctx,
			"INSERT INTO summary_rows (ledger, row_no, label, date, number) VALUES (?, ?, ?, ?, ?)",
			raw.Name, i+1, row.Label, row.Date, row.Number,
		)
		if err != nil {
			return fmt.Errorf("failed to insert summary row %d: %w", i+1, err)
		}
	}

	return sqlTx.Commit()
}

// =============================================================================
// SOURCE (generic.Source interface)
// =============================================================================

// ListLedgers returns every imported ledger name, sorted.
func (s *Store) ListLedgers(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM ledgers ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query ledgers: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// LoadLedger rebuilds the RawLedger imported under name.
func (s *Store) LoadLedger(ctx context.Context, name string) (generic.RawLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ledger := generic.RawLedger{Name: name}

	var (
		clientName    sql.NullString
		clientAddress sql.NullString
		columnsJSON   string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT client_name, client_address, columns_json FROM ledgers WHERE name = ?",
		name,
	).Scan(&clientName, &clientAddress, &columnsJSON)
	if err == sql.ErrNoRows {
		return ledger, fmt.Errorf("%s: %w", name, generic.ErrLedgerNotFound)
	}
	if err != nil {
		return ledger, fmt.Errorf("failed to load ledger: %w", err)
	}
	ledger.Client = generic.Client{Name: clientName.String, Address: clientAddress.String}
	if err := json.Unmarshal([]byte(columnsJSON), &ledger.Columns); err != nil {
		return ledger, fmt.Errorf("failed to decode columns: %w", err)
	}

	records, err := s.queryRecords(ctx, name)
	if err != nil {
		return ledger, err
	}
	ledger.Records = records

	summary, err := s.querySummary(ctx, name)
	if err != nil {
		return ledger, err
	}
	ledger.Summary = summary

	return ledger, nil
}

func (s *Store) queryRecords(ctx context.Context, name string) ([]generic.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT cells_json FROM ledger_records WHERE ledger = ? ORDER BY row_no ASC",
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []generic.RawRecord
	for rows.Next() {
		var cellsJSON string
		if err := rows.Scan(&cellsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec := generic.RawRecord{}
		if err := json.Unmarshal([]byte(cellsJSON), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) querySummary(ctx context.Context, name string) ([]generic.SummaryRow, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT label, date, number FROM summary_rows WHERE ledger = ? ORDER BY row_no ASC",
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	defer rows.Close()

	var summary []generic.SummaryRow
	for rows.Next() {
		var label, date, number sql.NullString
		if err := rows.Scan(&label, &date, &number); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summary = append(summary, generic.SummaryRow{Label: label.String, Date: date.String, Number: number.String})
	}
	return summary, rows.Err()
}

var _ generic.Source = (*Store)(nil)
