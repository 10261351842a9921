package statement

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/site-statement/generic"
)

// =============================================================================
// NORMALIZER - Raw cell text to typed entries
// =============================================================================

// Normalized is the normalizer output: entries in source order plus every
// cell that had to be replaced by a default.
type Normalized struct {
	Entries  []Entry
	Warnings []ParseWarning
}

// placeholder invoice markers left behind by spreadsheet exports
var invoicePlaceholders = map[string]bool{"nan": true, "none": true, "null": true}

// Normalize type-coerces every record of raw.
//
// Fails only with *SchemaError when a required column is missing. Every other
// problem is recovered locally: currency becomes zero, dates become absent,
// and a ParseWarning is recorded.
func Normalize(raw generic.RawLedger) (Normalized, error) {
	if missing := raw.MissingColumns(); len(missing) > 0 {
		return Normalized{}, &SchemaError{Ledger: raw.Name, Missing: missing}
	}

	out := Normalized{Entries: make([]Entry, 0, len(raw.Records))}
	for i, rec := range raw.Records {
		if isBlankRecord(rec) {
			continue
		}
		entry, warnings := normalizeRecord(i+1, rec)
		out.Entries = append(out.Entries, entry)
		out.Warnings = append(out.Warnings, warnings...)
	}
	return out, nil
}

func normalizeRecord(row int, rec generic.RawRecord) (Entry, []ParseWarning) {
	var warnings []ParseWarning
	warn := func(col, value, reason string) {
		warnings = append(warnings, ParseWarning{Row: row, Column: col, Value: value, Reason: reason})
	}

	e := Entry{
		Row:           row,
		Person:        rec.Get(generic.ColPerson),
		Reference:     rec.Get(generic.ColReference),
		InvoiceNumber: NormalizeInvoice(rec.Get(generic.ColInvoice)),
		BankDetails:   rec.Get(generic.ColBankDetails),
		Value:         decimal.Zero,
	}

	if s := rec.Get(generic.ColReportingDate); s != "" {
		d, err := generic.ParseDate(s)
		if err != nil {
			warn(generic.ColReportingDate, s, "unparsable reporting date, entry excluded from date selections")
		}
		e.ReportingDate = d
	} else {
		warn(generic.ColReportingDate, s, "missing reporting date, entry excluded from date selections")
	}

	if s := rec.Get(generic.ColType); s != "" {
		t, err := parseTypeCode(s)
		if err != nil {
			warn(generic.ColType, s, err.Error())
		}
		e.Type = t
	} else {
		warn(generic.ColType, s, "missing type code")
	}

	if s := rec.Get(generic.ColDueDate); s != "" {
		d, err := generic.ParseDate(s)
		if err != nil {
			warn(generic.ColDueDate, s, "unparsable due date, treated as absent")
		}
		e.DueDate = d
	}

	if s := rec.Get(generic.ColValue); s != "" {
		v, err := generic.ParseCurrency(s)
		if err != nil {
			warn(generic.ColValue, s, "unparsable value, treated as zero")
		}
		e.Value = v
	}

	if s := rec.Get(generic.ColDays); s != "" {
		days, err := parseInt(s)
		if err != nil {
			warn(generic.ColDays, s, "unparsable days, treated as absent")
		} else {
			e.Days = &days
		}
	}

	if s := rec.Get(generic.ColUnitValue); s != "" {
		v, err := generic.ParseCurrency(s)
		if err != nil {
			warn(generic.ColUnitValue, s, "unparsable unit value, treated as absent")
		} else {
			e.UnitValue = &v
		}
	}

	if e.Type != TypePersonnel {
		e.Reference = TagReference(e.Reference, e.InvoiceNumber)
	}
	return e, warnings
}

// NormalizeInvoice coerces an invoice cell to text. Placeholder markers
// become "" and float renderings of whole numbers lose their ".0".
func NormalizeInvoice(s string) string {
	s = strings.TrimSpace(s)
	if invoicePlaceholders[strings.ToLower(s)] {
		return ""
	}
	if whole, ok := strings.CutSuffix(s, ".0"); ok {
		if _, err := strconv.ParseInt(whole, 10, 64); err == nil {
			return whole
		}
	}
	return s
}

// TagReference appends the invoice tag "(NF: <invoice>)" to reference.
// Applying it twice leaves the reference unchanged.
func TagReference(reference, invoice string) string {
	invoice = NormalizeInvoice(invoice)
	if invoice == "" {
		return reference
	}
	tag := "(NF: " + invoice + ")"
	if strings.HasSuffix(reference, tag) {
		return reference
	}
	if reference == "" {
		return tag
	}
	return reference + " " + tag
}

func parseTypeCode(s string) (TypeCode, error) {
	n, err := parseInt(s)
	if err != nil {
		return TypeUnknown, fmt.Errorf("unparsable type code")
	}
	t := TypeCode(n)
	if !t.Valid() {
		return TypeUnknown, fmt.Errorf("type code %d outside the 1-7 taxonomy", n)
	}
	return t, nil
}

// parseInt accepts "22" and spreadsheet renderings such as "22.0" or "22,0".
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, errors.New("not a whole number")
	}
	return int(d.IntPart()), nil
}

func isBlankRecord(rec generic.RawRecord) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// ROUND TRIP - Render entries back to raw records
// =============================================================================

// Record renders e back into the regional text form so the normalizer can
// be re-applied to already normalized data.
func (e Entry) Record() generic.RawRecord {
	rec := generic.RawRecord{
		generic.ColReportingDate: e.ReportingDate.String(),
		generic.ColType:          strconv.Itoa(int(e.Type)),
		generic.ColPerson:        e.Person,
		generic.ColReference:     e.Reference,
		generic.ColDueDate:       e.DueDate.String(),
		generic.ColValue:         generic.FormatCurrencyExact(e.Value),
		generic.ColInvoice:       e.InvoiceNumber,
		generic.ColBankDetails:   e.BankDetails,
	}
	if e.Days != nil {
		rec[generic.ColDays] = strconv.Itoa(*e.Days)
	}
	if e.UnitValue != nil {
		rec[generic.ColUnitValue] = generic.FormatCurrencyExact(*e.UnitValue)
	}
	return rec
}

// ToRawLedger rebuilds a RawLedger around entries.
func ToRawLedger(name string, entries []Entry) generic.RawLedger {
	raw := generic.RawLedger{
		Name:    name,
		Columns: append([]string(nil), generic.AllColumns...),
		Records: make([]generic.RawRecord, len(entries)),
	}
	for i, e := range entries {
		raw.Records[i] = e.Record()
	}
	return raw
}
