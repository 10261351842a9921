/*
ledger.go - Loader output contract

PURPOSE:
  A RawLedger is what every loader (workbook directory, SQLite, memory)
  hands to the statement core: cell text keyed by canonical column names,
  the summary table of previously issued statements and the client header.

CRITICAL INVARIANTS:
  1. READ-ONLY: the core never mutates a RawLedger or its records
  2. TEXT ONLY: cells stay as text, parsing belongs to the normalizer
  3. CANONICAL KEYS: loaders map their header names onto the Col* keys

SEE ALSO:
  - store.go: Source port returning RawLedger values
  - statement/normalize.go: turns records into typed entries
*/
package generic

import (
	"strings"
)

// =============================================================================
// COLUMNS
// =============================================================================

const (
	ColReportingDate = "REPORTING_DATE"
	ColType          = "TYPE"
	ColPerson        = "PERSON"
	ColReference     = "REFERENCE"
	ColDueDate       = "DUE_DATE"
	ColValue         = "VALUE"
	ColInvoice       = "INVOICE"
	ColBankDetails   = "BANK_DETAILS"
	ColDays          = "DAYS"
	ColUnitValue     = "UNIT_VALUE"
)

// RequiredColumns must all be present for a ledger to be processed.
var RequiredColumns = []string{
	ColReportingDate,
	ColType,
	ColReference,
	ColDueDate,
	ColValue,
	ColInvoice,
}

// AllColumns lists every canonical column in display order.
var AllColumns = []string{
	ColReportingDate,
	ColType,
	ColPerson,
	ColReference,
	ColDueDate,
	ColValue,
	ColInvoice,
	ColBankDetails,
	ColDays,
	ColUnitValue,
}

// columnAliases maps header spellings found in workbooks to canonical keys.
var columnAliases = map[string]string{
	"DATE":             ColReportingDate,
	"REPORT_DATE":      ColReportingDate,
	"TYPE_CODE":        ColType,
	"PERSON_OR_ENTITY": ColPerson,
	"ENTITY":           ColPerson,
	"INVOICE_NUMBER":   ColInvoice,
	"NF":               ColInvoice,
	"BANK":             ColBankDetails,
}

// CanonicalColumn normalizes a header cell: trims, upper-cases, joins words
// with "_" and resolves known aliases.
func CanonicalColumn(header string) string {
	key := strings.ToUpper(strings.Join(strings.Fields(header), "_"))
	key = strings.ReplaceAll(key, "-", "_")
	if canonical, ok := columnAliases[key]; ok {
		return canonical
	}
	return key
}

// =============================================================================
// RAW LEDGER
// =============================================================================

// RawRecord is one ledger row: cell text keyed by canonical column.
type RawRecord map[string]string

// Get returns the trimmed cell text for col ("" when blank or missing).
func (r RawRecord) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// SummaryRow is one row of the summary table of issued statements:
// a label cell, the statement date and the sequence number declared for it.
type SummaryRow struct {
	Label  string
	Date   string
	Number string
}

// Client identifies whose ledger this is.
type Client struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// RawLedger is the full, unparsed content of one client ledger.
type RawLedger struct {
	Name    string
	Columns []string
	Records []RawRecord
	Summary []SummaryRow
	Client  Client
}

// HasColumn reports whether the ledger header declares col.
func (l RawLedger) HasColumn(col string) bool {
	for _, c := range l.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// MissingColumns returns the required columns absent from the header.
func (l RawLedger) MissingColumns() []string {
	var missing []string
	for _, col := range RequiredColumns {
		if !l.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}
