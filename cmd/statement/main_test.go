package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/site-statement/config"
	"github.com/xuri/excelize/v2"
)

func writeLedger(t *testing.T, dir, name string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "LEDGER"))
	rows := [][]any{
		{"Reporting Date", "Type", "Person", "Reference", "Due Date", "Value", "Invoice"},
		{"05/01/2025", 2, "Loja", "Sand", "", "100,00", ""},
		{"20/01/2025", 2, "Loja", "Gravel", "", "200,00", ""},
		{"05/02/2025", 3, "Loja", "Steel", "", "300,00", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("LEDGER", cell, &row))
	}
	_, err := f.NewSheet("SUMMARY")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("SUMMARY", "A1", &[]any{"Statement", "05/01/2025", 1}))
	require.NoError(t, f.SetSheetRow("SUMMARY", "A2", &[]any{"Statement", "20/01/2025", 2}))
	require.NoError(t, f.SaveAs(filepath.Join(dir, name+".xlsx")))
}

func testConfig(dir, backend string) *config.Config {
	return &config.Config{
		Ledger: config.LedgerConfig{
			Backend:      backend,
			Dir:          dir,
			Sheet:        "LEDGER",
			SummarySheet: "SUMMARY",
			SQLitePath:   filepath.Join(dir, "ledgers.db"),
		},
		WorkerPool: config.WorkerPoolConfig{Size: 2},
	}
}

func TestRun_ImportThenGenerateFromSQLite(t *testing.T) {
	// GIVEN: Two workbooks imported into SQLite
	// WHEN: Generating a statement and a sweep from the sqlite backend
	// THEN: Both read the imported ledgers

	dir := t.TempDir()
	writeLedger(t, dir, "obra-a")
	writeLedger(t, dir, "obra-b")
	logg, _ := logtest.NewNullLogger()
	ctx := context.Background()

	require.NoError(t, run(ctx, testConfig(dir, config.BackendXLSX), options{importAll: true}, logg, &bytes.Buffer{}))

	var out bytes.Buffer
	err := run(ctx, testConfig(dir, config.BackendSQLite), options{ledger: "obra-a", date: "05/02/2025"}, logg, &out)
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, float64(3), report["sequence"])

	out.Reset()
	err = run(ctx, testConfig(dir, config.BackendSQLite), options{pending: true, ledgers: "obra-a, obra-b", reference: "20/01/2025"}, logg, &out)
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, "600", summary["grand_total"])
}

func TestRun_PendingClosesOnSummaryWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	writeLedger(t, dir, "obra")
	logg, _ := logtest.NewNullLogger()

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), testConfig(dir, config.BackendXLSX), options{pending: true}, logg, &out))
	var summary map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, "0", summary["grand_total"])

	cfg := testConfig(dir, config.BackendXLSX)
	cfg.Sweep.ClosingFromSummary = true
	out.Reset()
	require.NoError(t, run(context.Background(), cfg, options{pending: true}, logg, &out))
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, "300", summary["grand_total"])
}

func TestRun_StatementWorkbook(t *testing.T) {
	dir := t.TempDir()
	writeLedger(t, dir, "obra")
	logg, _ := logtest.NewNullLogger()
	path := filepath.Join(t.TempDir(), "out.xlsx")

	err := run(context.Background(), testConfig(dir, config.BackendXLSX),
		options{ledger: "obra", date: "20/01/2025", future: true, out: path}, logg, &bytes.Buffer{})

	require.NoError(t, err)
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Future")
}

func TestRun_Validation(t *testing.T) {
	logg, _ := logtest.NewNullLogger()
	cfg := testConfig(t.TempDir(), config.BackendXLSX)

	assert.Error(t, run(context.Background(), cfg, options{date: "05/02/2025"}, logg, &bytes.Buffer{}))
	assert.Error(t, run(context.Background(), cfg, options{ledger: "obra", date: "yesterday"}, logg, &bytes.Buffer{}))
	assert.Error(t, run(context.Background(), cfg, options{pending: true, reference: "99/99/2025"}, logg, &bytes.Buffer{}))
}
