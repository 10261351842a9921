/*
Package xlsx loads client ledgers from a directory of workbooks and writes
statement payloads back to spreadsheets.

WORKBOOK LAYOUT:
  One workbook per client, named <ledger>.xlsx.

  Ledger sheet (default "LEDGER", else the first sheet):
    first non-empty row = header, one entry per following row.
    Header cells are mapped with generic.CanonicalColumn, so "Reporting Date",
    "Due-Date" or "NF" all land on canonical keys.

  Summary sheet (default "SUMMARY", optional):
    A: label   B: statement date   C: declared sequence number
    Rows labelled CLIENT / ADDRESS carry the client header in column B.

CELL VALUES:
  Cells are read raw (no number formats applied). Dates therefore arrive as
  day-first text or as spreadsheet serials and amounts as regional text or
  machine decimals; both forms are handled by the normalizer.

SEE ALSO:
  - generic/ledger.go: RawLedger contract
  - export.go: statement and pending workbooks
*/
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/warp/site-statement/generic"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultLedgerSheet  = "LEDGER"
	DefaultSummarySheet = "SUMMARY"

	extension = ".xlsx"
)

type Options struct {
	LedgerSheet  string
	SummarySheet string
}

func (o Options) withDefaults() Options {
	if o.LedgerSheet == "" {
		o.LedgerSheet = DefaultLedgerSheet
	}
	if o.SummarySheet == "" {
		o.SummarySheet = DefaultSummarySheet
	}
	return o
}

// Store is a generic.Source over a directory of workbooks.
type Store struct {
	dir  string
	opts Options
}

func New(dir string, opts Options) *Store {
	return &Store{dir: dir, opts: opts.withDefaults()}
}

// Dir returns the workbook directory.
func (s *Store) Dir() string { return s.dir }

// ListLedgers returns the workbook names without extension, sorted.
// Office lock files ("~$name.xlsx") are ignored.
func (s *Store) ListLedgers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger directory: %w", err)
	}

	var names []string
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	sort.Strings(names)
	return names, nil
}

// LoadLedger opens <dir>/<name>.xlsx and reads it.
func (s *Store) LoadLedger(ctx context.Context, name string) (generic.RawLedger, error) {
	if err := ctx.Err(); err != nil {
		return generic.RawLedger{}, err
	}
	if name == "" || name != filepath.Base(name) {
		return generic.RawLedger{}, fmt.Errorf("invalid ledger name %q: %w", name, generic.ErrLedgerNotFound)
	}

	path := filepath.Join(s.dir, name+extension)
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return generic.RawLedger{}, fmt.Errorf("%s: %w", name, generic.ErrLedgerNotFound)
		}
		return generic.RawLedger{}, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, name, s.opts)
}

// =============================================================================
// READING
// =============================================================================

// Read extracts a RawLedger from an open workbook.
func Read(f *excelize.File, name string, opts Options) (generic.RawLedger, error) {
	opts = opts.withDefaults()
	ledger := generic.RawLedger{Name: name}

	sheet := opts.LedgerSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return ledger, fmt.Errorf("workbook %s has no sheets", name)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return ledger, fmt.Errorf("unable to read sheet %s: %w", sheet, err)
	}

	headerAt := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return ledger, nil
	}

	columns := make([]string, len(rows[headerAt]))
	for i, cell := range rows[headerAt] {
		columns[i] = generic.CanonicalColumn(cell)
		if columns[i] != "" {
			ledger.Columns = append(ledger.Columns, columns[i])
		}
	}

	for _, row := range rows[headerAt+1:] {
		rec := make(generic.RawRecord, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		ledger.Records = append(ledger.Records, rec)
	}

	if idx, _ := f.GetSheetIndex(opts.SummarySheet); idx >= 0 {
		if err := readSummary(f, opts.SummarySheet, &ledger); err != nil {
			return ledger, err
		}
	}
	return ledger, nil
}

func readSummary(f *excelize.File, sheet string, ledger *generic.RawLedger) error {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("unable to read sheet %s: %w", sheet, err)
	}

	for _, row := range rows {
		label, date, number := cell(row, 0), cell(row, 1), cell(row, 2)
		switch strings.ToUpper(label) {
		case "CLIENT":
			ledger.Client.Name = date
			continue
		case "ADDRESS":
			ledger.Client.Address = date
			continue
		}
		if strings.EqualFold(date, "DATE") {
			continue // header row
		}
		ledger.Summary = append(ledger.Summary, generic.SummaryRow{Label: label, Date: date, Number: number})
	}
	return nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var _ generic.Source = (*Store)(nil)
