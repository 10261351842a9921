/*
main.go - One-shot statement CLI

PURPOSE:
  Runs the statement engine without the HTTP server: generate one
  statement, run the pending sweep, or import workbooks into SQLite.

MODES:
  Statement (default):
    statement -ledger=obra-a -date=05/02/2025 [-future] [-out=obra-a.xlsx]
    Prints the payload as JSON, or writes a workbook when -out is set.

  Pending sweep:
    statement -pending [-ledgers=obra-a,obra-b] [-reference=20/02/2025] [-out=pending.xlsx]
    Sweeps the listed ledgers (every ledger when omitted).

  Import:
    statement -import
    Copies every workbook of LEDGER_DIR into the SQLite database at
    SQLITE_PATH, replacing earlier imports of the same ledger.

CONFIGURATION:
  Same keys as the server (config/load.go). LEDGER_BACKEND picks the source
  for the statement and pending modes.

EXIT CODES:
  0 success, 1 failure. A sweep with failed ledgers still exits 0 as long
  as one ledger was processed; failures are listed in the output.
*/
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/warp/site-statement/config"
	"github.com/warp/site-statement/generic"
	"github.com/warp/site-statement/logger"
	"github.com/warp/site-statement/statement"
	"github.com/warp/site-statement/store"
	"github.com/warp/site-statement/store/sqlite"
	"github.com/warp/site-statement/store/xlsx"
	"github.com/xuri/excelize/v2"
)

type options struct {
	configName string
	ledger     string
	date       string
	future     bool
	out        string
	pending    bool
	ledgers    string
	reference  string
	importAll  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configName, "config", "app", "config file base name (<name>.env)")
	flag.StringVar(&opts.ledger, "ledger", "", "ledger name")
	flag.StringVar(&opts.date, "date", "", "statement date (DD/MM/YYYY)")
	flag.BoolVar(&opts.future, "future", false, "include future windows")
	flag.StringVar(&opts.out, "out", "", "write a workbook to this path instead of JSON to stdout")
	flag.BoolVar(&opts.pending, "pending", false, "run the pending sweep")
	flag.StringVar(&opts.ledgers, "ledgers", "", "comma separated ledgers for the sweep (default: all)")
	flag.StringVar(&opts.reference, "reference", "", "closing date override for the sweep (DD/MM/YYYY)")
	flag.BoolVar(&opts.importAll, "import", false, "import LEDGER_DIR workbooks into SQLITE_PATH")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(opts.configName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		os.Exit(1)
	}
	// stdout carries the payload
	logg := logger.NewWithOutput(cfg.Logging, os.Stderr)

	if err := run(context.Background(), cfg, opts, logg, os.Stdout); err != nil {
		logg.WithError(err).Error("statement command failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, logg logrus.FieldLogger, stdout io.Writer) error {
	if opts.importAll {
		return importWorkbooks(ctx, cfg.Ledger, logg)
	}

	source, closeSource, err := store.Open(cfg.Ledger)
	if err != nil {
		return err
	}
	defer closeSource()

	if opts.pending {
		scanner := statement.NewScanner(source, cfg.WorkerPool.Size, logg)
		scanner.ClosingFromSummary = cfg.Sweep.ClosingFromSummary
		return runPending(ctx, scanner, opts, stdout)
	}
	return runStatement(ctx, source, opts, logg, stdout)
}

func runStatement(ctx context.Context, source generic.Source, opts options, logg logrus.FieldLogger, stdout io.Writer) error {
	if opts.ledger == "" {
		return errors.New("-ledger is required")
	}
	target, err := generic.ParseDate(opts.date)
	if err != nil {
		return fmt.Errorf("-date: %w", err)
	}

	raw, err := source.LoadLedger(ctx, opts.ledger)
	if err != nil {
		return err
	}
	report, err := statement.NewAssembler(logg).Generate(ctx, raw, statement.Request{
		TargetDate:    target,
		IncludeFuture: opts.future,
	})
	if err != nil {
		return err
	}

	if opts.out != "" {
		f, err := xlsx.StatementWorkbook(report)
		if err != nil {
			return err
		}
		return save(f, opts.out)
	}
	return writeJSON(stdout, report)
}

func runPending(ctx context.Context, scanner *statement.Scanner, opts options, stdout io.Writer) error {
	var reference generic.TimePoint
	if opts.reference != "" {
		var err error
		if reference, err = generic.ParseDate(opts.reference); err != nil {
			return fmt.Errorf("-reference: %w", err)
		}
	}

	var names []string
	for _, name := range strings.Split(opts.ledgers, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}

	summary, err := scanner.Scan(ctx, names, reference)
	if err != nil {
		return err
	}

	if opts.out != "" {
		f, err := xlsx.PendingWorkbook(summary)
		if err != nil {
			return err
		}
		return save(f, opts.out)
	}
	return writeJSON(stdout, summary)
}

// importWorkbooks copies every workbook ledger into SQLite. A workbook that
// cannot be read is logged and skipped.
func importWorkbooks(ctx context.Context, cfg config.LedgerConfig, logg logrus.FieldLogger) error {
	books := xlsx.New(cfg.Dir, store.WorkbookOptions(cfg))
	db, err := sqlite.New(cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	names, err := books.ListLedgers(ctx)
	if err != nil {
		return err
	}

	imported := 0
	for _, name := range names {
		log := logg.WithField("ledger", name)
		raw, err := books.LoadLedger(ctx, name)
		if err != nil {
			log.WithError(err).Warn("workbook skipped")
			continue
		}
		if err := db.ImportLedger(ctx, raw); err != nil {
			return fmt.Errorf("import %s: %w", name, err)
		}
		imported++
		log.WithField("rows", len(raw.Records)).Info("ledger imported")
	}
	if imported == 0 {
		return generic.ErrNoLedgers
	}
	return nil
}

func save(f *excelize.File, path string) error {
	defer f.Close()
	return f.SaveAs(path)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
