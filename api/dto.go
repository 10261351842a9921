/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Request bodies accepted by the statement endpoints. Responses reuse the
  statement payload types directly (Report, PendingSummary), which already
  carry their JSON contract.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response wrappers

DATES:
  Dates travel as day-first text ("05/02/2025"), the same layout the ledgers
  use. ISO dates are accepted too.

SEE ALSO:
  - handlers.go: Uses these types
  - statement/assemble.go: Report
  - statement/pending.go: PendingSummary
*/
package api

import (
	"github.com/warp/site-statement/generic"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// StatementRequest is the body of POST /api/ledgers/{name}/statements.
type StatementRequest struct {
	TargetDate    generic.TimePoint `json:"target_date"`
	IncludeFuture bool              `json:"include_future"`
}

// PendingRequest is the body of POST /api/pending. Both fields are optional.
type PendingRequest struct {
	Ledgers       []string          `json:"ledgers,omitempty"`
	ReferenceDate generic.TimePoint `json:"reference_date"`
}

// LedgerListResponse is returned by GET /api/ledgers.
type LedgerListResponse struct {
	Ledgers []string `json:"ledgers"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
