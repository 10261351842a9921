/*
handlers.go - HTTP API handlers for the statement engine

PURPOSE:
  Exposes statement generation and the pending sweep via REST API. Handles
  HTTP request/response and JSON serialization, and delegates to the
  statement package.

ENDPOINTS:
  GET    /healthz                         Liveness probe
  GET    /api/ledgers                     List ledger names of the source
  POST   /api/ledgers/{name}/statements   Generate one statement
                                          (?format=xlsx streams a workbook)
  POST   /api/pending                     Run the pending sweep
                                          (?format=xlsx streams a workbook)
  GET    /api/pending/latest              Last scheduled sweep

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Source:    where ledgers are loaded from (xlsx directory, sqlite, memory)
  - Assembler: single statement pipeline
  - Scanner:   concurrent pending sweep over the same source

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, missing or invalid date
  - 404: Unknown ledger
  - 422: Ledger schema error, or a sweep with nothing processable
  - 500: Internal errors

SECURITY NOTE:
  No authentication. Run behind the site network only.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/warp/site-statement/generic"
	"github.com/warp/site-statement/logger"
	"github.com/warp/site-statement/statement"
	"github.com/warp/site-statement/store/xlsx"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Source    generic.Source
	Assembler *statement.Assembler
	Scanner   *statement.Scanner
	Scheduler *SweepScheduler // optional
	Logger    logrus.FieldLogger
}

// NewHandler wires the statement pipeline and the sweep to one source.
func NewHandler(source generic.Source, workers int, log logrus.FieldLogger) *Handler {
	return &Handler{
		Source:    source,
		Assembler: statement.NewAssembler(log),
		Scanner:   statement.NewScanner(source, workers, log),
		Logger:    logger.Component(log, "api"),
	}
}

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// ListLedgers returns the ledger names the source can load.
func (h *Handler) ListLedgers(w http.ResponseWriter, r *http.Request) {
	names, err := h.Source.ListLedgers(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "Failed to list ledgers", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, LedgerListResponse{Ledgers: names})
}

// GenerateStatement builds the statement of one ledger for a target date.
func (h *Handler) GenerateStatement(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req StatementRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.TargetDate.IsZero() {
		writeError(w, http.StatusBadRequest, "target_date is required", nil)
		return
	}

	raw, err := h.Source.LoadLedger(r.Context(), name)
	if err != nil {
		h.writeDomainError(w, r, "Failed to load ledger", err)
		return
	}

	report, err := h.Assembler.Generate(r.Context(), raw, statement.Request{
		TargetDate:    req.TargetDate,
		IncludeFuture: req.IncludeFuture,
	})
	if err != nil {
		h.writeDomainError(w, r, "Failed to generate statement", err)
		return
	}

	if wantsWorkbook(r) {
		f, err := xlsx.StatementWorkbook(report)
		if err != nil {
			h.writeDomainError(w, r, "Failed to build workbook", err)
			return
		}
		h.writeWorkbook(w, f, fmt.Sprintf("%s-%d.xlsx", name, report.Sequence))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// PENDING SWEEP
// =============================================================================

// ScanPending runs the pending sweep. Failed ledgers are listed in the
// payload; the request only fails when no ledger could be processed.
func (h *Handler) ScanPending(w http.ResponseWriter, r *http.Request) {
	var req PendingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	summary, err := h.Scanner.Scan(r.Context(), req.Ledgers, req.ReferenceDate)
	if err != nil {
		if errors.Is(err, generic.ErrNoLedgers) && summary != nil {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "No ledger could be processed",
				Code:    "no_ledgers",
				Details: summary.Failures,
			})
			return
		}
		h.writeDomainError(w, r, "Pending sweep failed", err)
		return
	}

	if wantsWorkbook(r) {
		f, err := xlsx.PendingWorkbook(summary)
		if err != nil {
			h.writeDomainError(w, r, "Failed to build workbook", err)
			return
		}
		h.writeWorkbook(w, f, "pending-"+summary.RunID+".xlsx")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// LatestPending returns the last sweep run by the scheduler.
func (h *Handler) LatestPending(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		writeError(w, http.StatusNotFound, "Scheduled sweep is disabled", nil)
		return
	}
	summary := h.Scheduler.Latest()
	if summary == nil {
		writeError(w, http.StatusNotFound, "No scheduled sweep has run yet", nil)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeBody decodes a JSON body. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func wantsWorkbook(r *http.Request) bool {
	return r.URL.Query().Get("format") == "xlsx"
}

func (h *Handler) writeWorkbook(w http.ResponseWriter, f *excelize.File, filename string) {
	defer f.Close()
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := f.Write(w); err != nil {
		h.Logger.WithError(err).WithField("file", filename).Error("workbook stream interrupted")
	}
}

// writeDomainError maps engine errors to HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	var schemaErr *statement.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   message,
			Code:    "schema",
			Details: map[string]any{"ledger": schemaErr.Ledger, "missing": schemaErr.Missing},
		})
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, generic.ErrNoLedgers):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	default:
		h.Logger.WithError(err).WithField("path", r.URL.Path).Error(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
