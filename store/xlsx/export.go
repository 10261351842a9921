package xlsx

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/site-statement/statement"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// STATEMENT WORKBOOK
// =============================================================================

const (
	SheetStatement = "Statement"
	SheetPayroll   = "Payroll"
	SheetPerDiem   = "Per-diem"
	SheetFuture    = "Future"
	SheetWarnings  = "Warnings"
	SheetPending   = "Pending"
	SheetClients   = "Clients"
	SheetFailures  = "Failures"
)

// StatementWorkbook lays a Report out as a workbook. Callers save it with
// SaveAs or stream it with Write.
func StatementWorkbook(r *statement.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetStatement); err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: SheetStatement}
	w.row("Client", r.Client.Name)
	w.row("Address", r.Client.Address)
	w.row("Statement", r.Sequence)
	w.row("Date", r.TargetDate.String())
	w.row("Period", r.Period.Start.String()+" - "+r.Period.End.String())
	w.row("Carried forward", money(r.Accumulated))
	w.skip()
	w.row("Type", "Person", "Reference", "Due date", "Value", "Invoice")
	for _, e := range r.Filtered {
		w.row(int(e.Type), e.Person, e.Reference, e.DueDate.String(), money(e.Value), e.InvoiceNumber)
	}
	w.row("", "", "", "Total", money(r.FilteredTotal))
	w.skip()
	for _, st := range r.TypeSubtotals {
		w.row(int(st.Type), st.Name, st.Count, "", money(st.Total))
	}
	w.skip()
	w.row("Period total", money(r.PeriodTotal))
	w.row("Consolidated total", money(r.ConsolidatedTotal))
	w.row("Balance", money(r.Balance))

	if err := writeConsolidated(f, SheetPayroll, r.PayrollRows, statement.PayrollCategories); err != nil {
		return nil, w.fail(err)
	}
	if err := writeConsolidated(f, SheetPerDiem, r.PerDiemRows, statement.PerDiemCategories); err != nil {
		return nil, w.fail(err)
	}

	if r.Future != nil {
		fw, err := newSheet(f, SheetFuture)
		if err != nil {
			return nil, w.fail(err)
		}
		fw.row("Window", "Reporting date", "Type", "Person", "Reference", "Due date", "Value")
		for _, ws := range r.Future.Windows {
			for _, row := range ws.Rows {
				fw.row(string(ws.Window), row.ReportingDate.String(), int(row.Type), row.Person, row.Reference, row.DueDate.String(), money(row.Value))
			}
			for _, st := range ws.ByType {
				fw.row(string(ws.Window), "", int(st.Type), st.Name, "", "subtotal", money(st.Total))
			}
			fw.row(string(ws.Window), "", "", "", "", "total", money(ws.Total))
		}
		fw.row("", "", "", "", "", "grand total", money(r.Future.GrandTotal))
		if fw.err != nil {
			return nil, w.fail(fw.err)
		}
	}

	if len(r.Warnings) > 0 {
		ww, err := newSheet(f, SheetWarnings)
		if err != nil {
			return nil, w.fail(err)
		}
		ww.row("Kind", "Message")
		for _, warn := range r.Warnings {
			ww.row(string(warn.Kind), warn.Message)
		}
		if ww.err != nil {
			return nil, w.fail(ww.err)
		}
	}

	if w.err != nil {
		return nil, w.fail(w.err)
	}
	return f, nil
}

func writeConsolidated(f *excelize.File, sheet string, rows []statement.ConsolidatedRow, table statement.CategoryTable) error {
	w, err := newSheet(f, sheet)
	if err != nil {
		return err
	}

	header := []any{"Person"}
	for _, c := range table.Order {
		header = append(header, string(c))
	}
	header = append(header, "Days", "Bank details", "Total", "Unmapped")
	w.row(header...)

	for _, r := range rows {
		values := []any{r.Person}
		for _, c := range table.Order {
			values = append(values, money(r.Subtotal(c)))
		}
		values = append(values, r.Days, r.BankDetails, money(r.Total), money(r.Unmapped))
		w.row(values...)
	}
	w.row("Total", "", "", "", "", "", money(statement.ConsolidatedTotal(rows)))
	return w.err
}

// =============================================================================
// PENDING WORKBOOK
// =============================================================================

// PendingWorkbook lays a sweep result out as a workbook: one row per pending
// entry, a per-client summary and the failed ledgers.
func PendingWorkbook(s *statement.PendingSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetPending); err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: SheetPending}
	w.row("Ledger", "Client", "Closing date", "Reporting date", "Type", "Person", "Reference", "Value", "Installment")
	for _, c := range s.Clients {
		for _, r := range c.Rows {
			w.row(c.Ledger, c.Client.Name, c.ClosingDate.String(), r.ReportingDate.String(), int(r.Type), r.Person, r.Reference, money(r.Value), r.IsInstallment)
		}
	}

	cw, err := newSheet(f, SheetClients)
	if err != nil {
		return nil, w.fail(err)
	}
	cw.row("Ledger", "Client", "Closing date", "Entries", "Total", "Installments")
	for _, c := range s.Clients {
		cw.row(c.Ledger, c.Client.Name, c.ClosingDate.String(), c.Count, money(c.Total), money(c.InstallmentTotal))
	}
	cw.row("Grand total", "", "", "", money(s.GrandTotal))
	if cw.err != nil {
		return nil, w.fail(cw.err)
	}

	if len(s.Failures) > 0 {
		fw, err := newSheet(f, SheetFailures)
		if err != nil {
			return nil, w.fail(err)
		}
		fw.row("Ledger", "Error")
		for _, fail := range s.Failures {
			fw.row(fail.Ledger, fail.Error)
		}
		if fw.err != nil {
			return nil, w.fail(fw.err)
		}
	}

	if w.err != nil {
		return nil, w.fail(w.err)
	}
	return f, nil
}

// =============================================================================
// SHEET WRITER
// =============================================================================

// sheetWriter appends rows to one sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
	err   error
}

func newSheet(f *excelize.File, name string) (*sheetWriter, error) {
	if _, err := f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return &sheetWriter{f: f, sheet: name}, nil
}

func (w *sheetWriter) row(values ...any) {
	w.next++
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write %s!%s: %w", w.sheet, cell, err)
	}
}

func (w *sheetWriter) skip() { w.next++ }

// fail closes the workbook and passes err through.
func (w *sheetWriter) fail(err error) error {
	w.f.Close()
	return err
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
