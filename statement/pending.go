package statement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/warp/site-statement/generic"
)

// =============================================================================
// PENDING ENTRIES - One ledger
// =============================================================================

// InstallmentMarkers flag a reference as part of an installment plan.
var InstallmentMarkers = []string{"installment", "installment-plan", "parcela", "parcelamento"}

// PendingRow is an entry not yet covered by any issued statement.
type PendingRow struct {
	Entry
	IsInstallment bool `json:"is_installment"`
}

type dedupKey struct {
	date      string
	typ       TypeCode
	person    string
	reference string
	value     string
}

// IsInstallment reports whether reference mentions an installment plan.
func IsInstallment(reference string) bool {
	lower := strings.ToLower(reference)
	for _, marker := range InstallmentMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// PendingEntries selects entries dated strictly after closing, drops
// duplicates of (reporting date, type, person, reference, value) keeping the
// first, tags installments and sorts by (reporting date, type).
func PendingEntries(entries []Entry, closing generic.TimePoint) []PendingRow {
	seen := make(map[dedupKey]bool)
	var rows []PendingRow
	for _, e := range entries {
		if e.ReportingDate.IsZero() || !e.ReportingDate.After(closing) {
			continue
		}
		k := dedupKey{
			date:      e.ReportingDate.ISO(),
			typ:       e.Type,
			person:    e.Person,
			reference: e.Reference,
			value:     e.Value.String(),
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		rows = append(rows, PendingRow{Entry: e, IsInstallment: IsInstallment(e.Reference)})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].ReportingDate.Equal(rows[j].ReportingDate) {
			return rows[i].ReportingDate.Before(rows[j].ReportingDate)
		}
		return rows[i].Type < rows[j].Type
	})
	return rows
}

// ClosingDate picks the date after which entries are pending: the supplied
// reference date, else the latest reporting date in the ledger.
func ClosingDate(reference generic.TimePoint, entries []Entry) generic.TimePoint {
	if !reference.IsZero() {
		return reference
	}
	dates := make([]generic.TimePoint, len(entries))
	for i, e := range entries {
		dates[i] = e.ReportingDate
	}
	return generic.MaxTimePoint(dates...)
}

// =============================================================================
// PENDING SWEEP - Many ledgers
// =============================================================================

// ClientPending is the pending schedule of one client.
type ClientPending struct {
	Ledger           string            `json:"ledger"`
	Client           generic.Client    `json:"client"`
	ClosingDate      generic.TimePoint `json:"closing_date"`
	Rows             []PendingRow      `json:"rows"`
	Count            int               `json:"count"`
	Total            decimal.Decimal   `json:"total"`
	InstallmentTotal decimal.Decimal   `json:"installment_total"`
	Warnings         int               `json:"warnings"`
}

// Failure is the serializable form of a BatchItemError.
type Failure struct {
	Ledger string `json:"ledger"`
	Error  string `json:"error"`
}

// PendingSummary is the cross-client result of a sweep.
type PendingSummary struct {
	RunID         string            `json:"run_id"`
	ReferenceDate generic.TimePoint `json:"reference_date"`
	Processed     int               `json:"processed"`
	Clients       []ClientPending   `json:"clients"`
	GrandTotal    decimal.Decimal   `json:"grand_total"`
	Failures      []Failure         `json:"failures,omitempty"`
	Errors        []*BatchItemError `json:"-"`
}

// Scanner sweeps every ledger of a Source for pending entries.
type Scanner struct {
	Source  generic.Source
	Workers int
	Logger  logrus.FieldLogger

	// ClosingFromSummary closes each ledger on the last statement of its
	// summary table when no reference date is supplied. Ledgers without a
	// usable summary row fall back to their latest reporting date.
	ClosingFromSummary bool
}

func NewScanner(source generic.Source, workers int, logger logrus.FieldLogger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scanner{Source: source, Workers: workers, Logger: logger}
}

type ledgerResult struct {
	client ClientPending
	err    error
}

// Scan processes names (every ledger of the source when empty). Reference,
// when non-zero, overrides each ledger's own closing date.
//
// Ledgers are processed independently on a worker pool and aggregated only
// after all of them finish. A failing ledger becomes a BatchItemError and the
// sweep continues. ErrNoLedgers is returned only when there is nothing to
// process or every ledger failed.
func (s *Scanner) Scan(ctx context.Context, names []string, reference generic.TimePoint) (*PendingSummary, error) {
	runID := uuid.NewString()
	log := s.Logger.WithFields(logrus.Fields{"component": "pending", "run_id": runID})

	if len(names) == 0 {
		listed, err := s.Source.ListLedgers(ctx)
		if err != nil {
			return nil, fmt.Errorf("list ledgers: %w", err)
		}
		names = listed
	}
	if len(names) == 0 {
		return nil, generic.ErrNoLedgers
	}

	pool, err := ants.NewPool(s.Workers)
	if err != nil {
		return nil, fmt.Errorf("worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]ledgerResult, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			results[i] = ledgerResult{err: err}
			continue
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = ledgerResult{err: fmt.Errorf("panic: %v", r)}
				}
			}()
			client, err := s.scanLedger(ctx, name, reference)
			results[i] = ledgerResult{client: client, err: err}
		})
		if submitErr != nil {
			wg.Done()
			results[i] = ledgerResult{err: submitErr}
		}
	}
	wg.Wait()

	summary := &PendingSummary{RunID: runID, ReferenceDate: reference, GrandTotal: decimal.Zero}
	for i, res := range results {
		if res.err != nil {
			itemErr := &BatchItemError{Ledger: names[i], Err: res.err}
			summary.Errors = append(summary.Errors, itemErr)
			summary.Failures = append(summary.Failures, Failure{Ledger: names[i], Error: res.err.Error()})
			log.WithField("ledger", names[i]).WithError(res.err).Warn("ledger skipped in pending sweep")
			continue
		}
		summary.Processed++
		if res.client.Count == 0 {
			continue
		}
		summary.Clients = append(summary.Clients, res.client)
		summary.GrandTotal = summary.GrandTotal.Add(res.client.Total)
	}

	sort.SliceStable(summary.Clients, func(i, j int) bool {
		return summary.Clients[i].Ledger < summary.Clients[j].Ledger
	})

	log.WithFields(logrus.Fields{
		"ledgers":     len(names),
		"processed":   summary.Processed,
		"failed":      len(summary.Errors),
		"clients":     len(summary.Clients),
		"grand_total": summary.GrandTotal.StringFixed(2),
	}).Info("pending sweep finished")

	if summary.Processed == 0 {
		errs := make([]error, 0, len(summary.Errors)+1)
		errs = append(errs, generic.ErrNoLedgers)
		for _, e := range summary.Errors {
			errs = append(errs, e)
		}
		return summary, errors.Join(errs...)
	}
	return summary, nil
}

func (s *Scanner) scanLedger(ctx context.Context, name string, reference generic.TimePoint) (ClientPending, error) {
	raw, err := s.Source.LoadLedger(ctx, name)
	if err != nil {
		return ClientPending{}, err
	}
	normalized, err := Normalize(raw)
	if err != nil {
		return ClientPending{}, err
	}

	if reference.IsZero() && s.ClosingFromSummary {
		reference = LatestAnchor(raw.Summary)
	}
	closing := ClosingDate(reference, normalized.Entries)
	rows := PendingEntries(normalized.Entries, closing)

	client := ClientPending{
		Ledger:           name,
		Client:           raw.Client,
		ClosingDate:      closing,
		Rows:             rows,
		Count:            len(rows),
		Total:            decimal.Zero,
		InstallmentTotal: decimal.Zero,
		Warnings:         len(normalized.Warnings),
	}
	for _, r := range rows {
		client.Total = client.Total.Add(r.Value)
		if r.IsInstallment {
			client.InstallmentTotal = client.InstallmentTotal.Add(r.Value)
		}
	}
	return client, nil
}
