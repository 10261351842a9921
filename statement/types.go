/*
Package statement computes bi-weekly client statements from an expense ledger.

PURPOSE:
  This is the accounting core: it turns a raw client ledger into the data
  payload of one statement. Rendering (PDF/HTML), workbook I/O and dialogs
  live outside; they only exchange the types defined here.

PIPELINE (one statement):
  Normalize   -> typed entries, invoice tags, parse warnings
  Classify    -> filtered / per-diem / payroll / future rows
  Consolidate -> one row per person with category subtotals
  Sequence    -> ordinal of the statement in the 5th/20th calendar
  Accumulate  -> carried-forward balance before the target date
  BucketFuture-> upcoming obligations by window and type
  Assemble    -> Report payload

PENDING SWEEP (many clients):
  Scanner.Scan loads every ledger, keeps entries after each ledger's last
  closing, de-duplicates and tags installments, then aggregates per client.

LIFECYCLE:
  Everything is rebuilt per request. Nothing is cached across requests and
  the raw ledger is never mutated.

SEE ALSO:
  - generic/ledger.go: RawLedger loader contract
  - generic/period.go: reporting calendar
*/
package statement

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/site-statement/generic"
)

// =============================================================================
// TYPE CODES - Fixed seven-category expense taxonomy
// =============================================================================

type TypeCode int

const (
	TypeUnknown        TypeCode = 0
	TypePersonnel      TypeCode = 1 // payroll and per-diem
	TypeTransfers      TypeCode = 2 // transfers for materials, leases, services
	TypeInvoiced       TypeCode = 3 // invoiced materials, services, taxes
	TypeReimbursements TypeCode = 4
	TypeClientPaid     TypeCode = 5 // expenses paid directly by the client
	TypeSiteCash       TypeCode = 6 // site-cash payments
	TypeSiteAdmin      TypeCode = 7 // site administration
)

var typeNames = map[TypeCode]string{
	TypePersonnel:      "Personnel",
	TypeTransfers:      "Transfers for materials, leases and services",
	TypeInvoiced:       "Invoiced materials, services and taxes",
	TypeReimbursements: "Reimbursements",
	TypeClientPaid:     "Client-paid expenses",
	TypeSiteCash:       "Site-cash payments",
	TypeSiteAdmin:      "Site administration",
}

// Valid reports whether t belongs to the taxonomy.
func (t TypeCode) Valid() bool {
	return t >= TypePersonnel && t <= TypeSiteAdmin
}

func (t TypeCode) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", int(t))
}

// TypeCodes returns the taxonomy in order.
func TypeCodes() []TypeCode {
	return []TypeCode{TypePersonnel, TypeTransfers, TypeInvoiced, TypeReimbursements, TypeClientPaid, TypeSiteCash, TypeSiteAdmin}
}

// Reference markers with a fixed meaning.
const (
	ReferenceDaily     = "DAILY"
	ReferenceTransport = "TRANSPORT"
)

// =============================================================================
// ENTRY - One normalized ledger row
// =============================================================================

type Entry struct {
	Row           int               `json:"row"`
	ReportingDate generic.TimePoint `json:"reporting_date"`
	Type          TypeCode          `json:"type_code"`
	Person        string            `json:"person"`
	Reference     string            `json:"reference"`
	DueDate       generic.TimePoint `json:"due_date"`
	Value         decimal.Decimal   `json:"value"`
	InvoiceNumber string            `json:"invoice_number,omitempty"`
	BankDetails   string            `json:"bank_details,omitempty"`
	Days          *int              `json:"days,omitempty"`
	UnitValue     *decimal.Decimal  `json:"unit_value,omitempty"`
}

// HasDueDate reports whether the due date is present.
func (e Entry) HasDueDate() bool { return !e.DueDate.IsZero() }

// DaysOrZero returns Days, or 0 when absent.
func (e Entry) DaysOrZero() int {
	if e.Days == nil {
		return 0
	}
	return *e.Days
}

// =============================================================================
// REQUEST
// =============================================================================

// Request drives one statement generation.
type Request struct {
	TargetDate    generic.TimePoint
	IncludeFuture bool
}

// =============================================================================
// HELPERS
// =============================================================================

// SumValues adds the values of entries.
func SumValues(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Value)
	}
	return total
}

// TypeSubtotal is the sum of one type code's values.
type TypeSubtotal struct {
	Type  TypeCode        `json:"type_code"`
	Name  string          `json:"name"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// SubtotalsByType groups entries by type code, in taxonomy order.
func SubtotalsByType(entries []Entry) []TypeSubtotal {
	totals := make(map[TypeCode]*TypeSubtotal)
	for _, e := range entries {
		st, ok := totals[e.Type]
		if !ok {
			st = &TypeSubtotal{Type: e.Type, Name: e.Type.String(), Total: decimal.Zero}
			totals[e.Type] = st
		}
		st.Count++
		st.Total = st.Total.Add(e.Value)
	}

	var result []TypeSubtotal
	for _, t := range TypeCodes() {
		if st, ok := totals[t]; ok {
			result = append(result, *st)
		}
	}
	return result
}
