package statement

import (
	"fmt"
	"strings"

	"github.com/warp/site-statement/generic"
)

// =============================================================================
// STRUCTURED ERRORS - Wrap generic sentinels with context
// =============================================================================

// SchemaError is fatal for one ledger: a required column is missing.
type SchemaError struct {
	Ledger  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("ledger %q: missing required columns: %s", e.Ledger, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error { return generic.ErrSchema }

// ParseWarning records a cell replaced by a safe default.
type ParseWarning struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (w *ParseWarning) Error() string {
	return fmt.Sprintf("row %d, column %s: %s (%q)", w.Row, w.Column, w.Reason, w.Value)
}

func (w *ParseWarning) Unwrap() error { return generic.ErrParse }

// SequenceUnresolved means the target date is not on the walked calendar.
// The statement falls back to sequence 1.
type SequenceUnresolved struct {
	Target generic.TimePoint
	Start  generic.TimePoint
}

func (e *SequenceUnresolved) Error() string {
	if e.Start.IsZero() {
		return fmt.Sprintf("sequence for %s unresolved: summary table has no valid dates", e.Target)
	}
	return fmt.Sprintf("sequence for %s unresolved: not on the calendar starting %s", e.Target, e.Start)
}

func (e *SequenceUnresolved) Unwrap() error { return generic.ErrSequenceUnresolved }

// BatchItemError isolates one failed ledger inside a pending sweep.
type BatchItemError struct {
	Ledger string
	Err    error
}

func (e *BatchItemError) Error() string {
	return fmt.Sprintf("ledger %q: %v", e.Ledger, e.Err)
}

func (e *BatchItemError) Unwrap() []error { return []error{generic.ErrBatchItem, e.Err} }

// =============================================================================
// WARNINGS - Non-fatal findings carried in the payload
// =============================================================================

type WarningKind string

const (
	WarnParse              WarningKind = "parse"
	WarnSequenceUnresolved WarningKind = "sequence_unresolved"
	WarnConsolidation      WarningKind = "consolidation_discrepancy"
)

type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

func warningFrom(kind WarningKind, err error) Warning {
	return Warning{Kind: kind, Message: err.Error()}
}
