package statement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/warp/site-statement/generic"
)

// =============================================================================
// REPORT - Data payload handed to renderers
// =============================================================================

// Report is everything a renderer needs for one statement. It is a plain
// value tree with no references back into the ledger.
type Report struct {
	ID               string            `json:"id"`
	Ledger           string            `json:"ledger"`
	Client           generic.Client    `json:"client"`
	TargetDate       generic.TimePoint `json:"target_date"`
	Period           generic.Period    `json:"period"`
	Sequence         int               `json:"sequence"`
	SequenceResolved bool              `json:"sequence_resolved"`

	Accumulated decimal.Decimal `json:"accumulated"`

	Filtered      []Entry         `json:"filtered"`
	FilteredTotal decimal.Decimal `json:"filtered_total"`
	TypeSubtotals []TypeSubtotal  `json:"type_subtotals"`

	PerDiem      []Entry           `json:"per_diem"`
	PerDiemRows  []ConsolidatedRow `json:"per_diem_rows"`
	PerDiemTotal decimal.Decimal   `json:"per_diem_total"`

	PayrollRows  []ConsolidatedRow `json:"payroll_rows"`
	PayrollTotal decimal.Decimal   `json:"payroll_total"`

	ConsolidatedTotal decimal.Decimal `json:"consolidated_total"`
	Discrepancies     []Discrepancy   `json:"discrepancies,omitempty"`

	PeriodTotal decimal.Decimal `json:"period_total"`
	Balance     decimal.Decimal `json:"balance"`

	Future   *FutureSummary `json:"future,omitempty"`
	Warnings []Warning      `json:"warnings,omitempty"`
}

// =============================================================================
// ASSEMBLER
// =============================================================================

type Assembler struct {
	Logger logrus.FieldLogger
}

func NewAssembler(logger logrus.FieldLogger) *Assembler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Assembler{Logger: logger}
}

// Generate builds the statement of raw for req.
//
// Only a missing target date or a *SchemaError abort. Every other problem is
// recovered and listed in Report.Warnings (and logged).
func (a *Assembler) Generate(ctx context.Context, raw generic.RawLedger, req Request) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.TargetDate.IsZero() {
		return nil, fmt.Errorf("target date is required: %w", generic.ErrInvalidDate)
	}

	log := a.Logger.WithFields(logrus.Fields{
		"component":   "assembler",
		"ledger":      raw.Name,
		"target_date": req.TargetDate.String(),
	})

	normalized, err := Normalize(raw)
	if err != nil {
		log.WithError(err).Error("ledger rejected")
		return nil, err
	}
	entries := normalized.Entries

	bundle := Classify(entries, req)
	payroll := Consolidate(bundle.Payroll, PayrollCategories)
	perDiem := Consolidate(bundle.PerDiem, PerDiemCategories)
	seq := SequenceNumber(raw.Summary, req.TargetDate)

	report := &Report{
		ID:               uuid.NewString(),
		Ledger:           raw.Name,
		Client:           raw.Client,
		TargetDate:       req.TargetDate,
		Period:           generic.CyclePeriod(req.TargetDate),
		Sequence:         seq.Number,
		SequenceResolved: seq.Resolved,
		Accumulated:      Accumulate(entries, req.TargetDate),
		Filtered:         bundle.Filtered,
		FilteredTotal:    SumValues(bundle.Filtered),
		TypeSubtotals:    SubtotalsByType(bundle.Filtered),
		PerDiem:          bundle.PerDiem,
		PerDiemRows:      perDiem,
		PerDiemTotal:     ConsolidatedTotal(perDiem),
		PayrollRows:      payroll,
		PayrollTotal:     ConsolidatedTotal(payroll),
		PeriodTotal:      PeriodTotal(entries, req.TargetDate),
	}
	report.ConsolidatedTotal = report.PayrollTotal.Add(report.PerDiemTotal)
	report.Discrepancies = append(Discrepancies(payroll), Discrepancies(perDiem)...)
	report.Balance = report.Accumulated.Add(report.PeriodTotal)

	if req.IncludeFuture {
		future := BucketFuture(bundle.Future)
		report.Future = &future
	}

	for i := range normalized.Warnings {
		report.Warnings = append(report.Warnings, warningFrom(WarnParse, &normalized.Warnings[i]))
	}
	for i := range seq.Skipped {
		report.Warnings = append(report.Warnings, warningFrom(WarnParse, &seq.Skipped[i]))
	}
	if seq.Unresolved != nil {
		report.Warnings = append(report.Warnings, warningFrom(WarnSequenceUnresolved, seq.Unresolved))
	}
	for _, d := range report.Discrepancies {
		report.Warnings = append(report.Warnings, Warning{
			Kind: WarnConsolidation,
			Message: fmt.Sprintf("%s: %s left out of the consolidated total (references: %v)",
				d.Person, generic.FormatCurrency(d.Unmapped), d.References),
		})
	}

	for _, w := range report.Warnings {
		log.WithField("kind", w.Kind).Warn(w.Message)
	}
	log.WithFields(logrus.Fields{
		"report_id":   report.ID,
		"sequence":    report.Sequence,
		"entries":     len(entries),
		"filtered":    len(report.Filtered),
		"balance":     report.Balance.StringFixed(2),
		"warnings":    len(report.Warnings),
		"with_future": req.IncludeFuture,
	}).Info("statement generated")

	return report, nil
}
