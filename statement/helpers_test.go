package statement_test

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/site-statement/generic"
	"github.com/warp/site-statement/statement"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// date parses a DD/MM/YYYY literal and panics on typos in tests.
func date(s string) generic.TimePoint {
	tp, err := generic.ParseDate(s)
	if err != nil {
		panic(fmt.Sprintf("bad test date %q: %v", s, err))
	}
	return tp
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(n int) *int { return &n }

func entry(reporting string, typ statement.TypeCode, person, reference, due, value string) statement.Entry {
	e := statement.Entry{
		Type:      typ,
		Person:    person,
		Reference: reference,
		Value:     dec(value),
	}
	if reporting != "" {
		e.ReportingDate = date(reporting)
	}
	if due != "" {
		e.DueDate = date(due)
	}
	return e
}

func rec(reporting, typ, person, reference, due, value, invoice string) generic.RawRecord {
	return generic.RawRecord{
		generic.ColReportingDate: reporting,
		generic.ColType:          typ,
		generic.ColPerson:        person,
		generic.ColReference:     reference,
		generic.ColDueDate:       due,
		generic.ColValue:         value,
		generic.ColInvoice:       invoice,
	}
}

func rawLedger(name string, records ...generic.RawRecord) generic.RawLedger {
	return generic.RawLedger{
		Name:    name,
		Columns: append([]string(nil), generic.AllColumns...),
		Records: records,
		Client:  generic.Client{Name: "Client " + name, Address: "Rua das Obras, 100"},
	}
}

// summary builds a summary table with one issued statement per date,
// numbered in the order given.
func summary(dates ...string) []generic.SummaryRow {
	rows := make([]generic.SummaryRow, len(dates))
	for i, d := range dates {
		rows[i] = generic.SummaryRow{Label: "Statement", Date: d, Number: fmt.Sprint(i + 1)}
	}
	return rows
}

func references(entries []statement.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Reference
	}
	return out
}

func values(entries []statement.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Value.String()
	}
	return out
}
