/*
errors.go - Centralized error types for the statement engine

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  The statement package wraps these with structured, context-carrying types.

ERROR CATEGORIES:
  1. Fatal per ledger   - ErrSchema (required column missing)
  2. Recovered locally  - ErrParse, ErrEmptyValue, ErrInvalidDate,
                          ErrInvalidAmount, ErrSequenceUnresolved
  3. Batch              - ErrBatchItem (one ledger failed), ErrNoLedgers
  4. Loader             - ErrLedgerNotFound

USAGE:
    if errors.Is(err, generic.ErrSchema) {
        // the ledger cannot produce a statement
    }

SEE ALSO:
  - statement/errors.go: SchemaError, ParseWarning, SequenceUnresolved, BatchItemError
*/
package generic

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSchema is returned when a ledger lacks a required column.
	ErrSchema = errors.New("ledger schema error")

	// ErrParse marks a cell that failed to parse. Always recovered.
	ErrParse = errors.New("cell parse warning")

	// ErrEmptyValue is returned by parsers for blank cells.
	ErrEmptyValue = errors.New("empty value")

	// ErrInvalidDate is returned for text that is not a day-first date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidAmount is returned for text that is not a currency amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrSequenceUnresolved marks a target date absent from the derived calendar.
	ErrSequenceUnresolved = errors.New("sequence number unresolved")

	// ErrBatchItem marks a single ledger failure inside a sweep.
	ErrBatchItem = errors.New("batch item failed")

	// ErrNoLedgers is returned when a sweep has nothing processable.
	ErrNoLedgers = errors.New("no processable ledger")

	// ErrLedgerNotFound is returned by sources for unknown ledger names.
	ErrLedgerNotFound = errors.New("ledger not found")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid input data.
func IsClientError(err error) bool {
	return errors.Is(err, ErrSchema) ||
		errors.Is(err, ErrInvalidDate)
}

// IsNotFound returns true if the error indicates a missing ledger.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLedgerNotFound)
}
