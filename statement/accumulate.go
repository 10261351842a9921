package statement

import (
	"github.com/shopspring/decimal"
	"github.com/warp/site-statement/generic"
)

// =============================================================================
// ACCUMULATOR - Carried-forward balance
// =============================================================================

// Accumulate returns the carried-forward balance at target: the sum of every
// entry dated strictly before target.
//
// The whole ledger counts, including rows outside the type taxonomy. Entries
// without a reporting date are left out; unparsable values were already
// normalized to zero.
func Accumulate(entries []Entry, target generic.TimePoint) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.ReportingDate.IsZero() {
			continue
		}
		if e.ReportingDate.Before(target) {
			total = total.Add(e.Value)
		}
	}
	return total
}

// AccumulateBetween sums entries with from <= reporting date < to.
func AccumulateBetween(entries []Entry, from, to generic.TimePoint) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.ReportingDate.IsZero() {
			continue
		}
		if e.ReportingDate.AfterOrEqual(from) && e.ReportingDate.Before(to) {
			total = total.Add(e.Value)
		}
	}
	return total
}

// PeriodTotal sums every entry dated exactly on target, whatever its type
// or reference. Accumulate(next) == Accumulate(target) + PeriodTotal(target)
// whenever nothing is dated between target and next.
func PeriodTotal(entries []Entry, target generic.TimePoint) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if !e.ReportingDate.IsZero() && e.ReportingDate.Equal(target) {
			total = total.Add(e.Value)
		}
	}
	return total
}
