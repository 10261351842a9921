package statement

import (
	"github.com/shopspring/decimal"
	"github.com/warp/site-statement/generic"
)

// =============================================================================
// FUTURE BUCKETER - Upcoming obligations by relative window
// =============================================================================

type Window string

const (
	WindowNext30  Window = "NEXT_30_DAYS"
	Window31To60  Window = "31_TO_60_DAYS"
	WindowAfter60 Window = "AFTER_60_DAYS"
)

// windowBoundary is the width of one window in days.
const windowBoundary = 30

// Windows lists the buckets in display order.
func Windows() []Window {
	return []Window{WindowNext30, Window31To60, WindowAfter60}
}

// WindowFor buckets reporting relative to target. First match wins:
//
//	reporting <= target+30 days -> NEXT_30_DAYS
//	reporting <= target+60 days -> 31_TO_60_DAYS
//	otherwise                   -> AFTER_60_DAYS
//
// The boundary days belong to the lower bucket.
func WindowFor(target, reporting generic.TimePoint) Window {
	days := generic.DaysBetween(target, reporting)
	switch {
	case days <= windowBoundary:
		return WindowNext30
	case days <= 2*windowBoundary:
		return Window31To60
	default:
		return WindowAfter60
	}
}

// WindowSummary aggregates one window.
type WindowSummary struct {
	Window Window          `json:"window"`
	Rows   []FutureRow     `json:"rows"`
	ByType []TypeSubtotal  `json:"by_type"`
	Total  decimal.Decimal `json:"total"`
}

// FutureSummary aggregates every window plus a grand total.
type FutureSummary struct {
	Windows    []WindowSummary `json:"windows"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// BucketFuture groups rows by their Window tag and sub-aggregates by type.
// Empty windows are omitted; rows keep their incoming order.
func BucketFuture(rows []FutureRow) FutureSummary {
	byWindow := make(map[Window][]FutureRow)
	for _, r := range rows {
		byWindow[r.Window] = append(byWindow[r.Window], r)
	}

	summary := FutureSummary{GrandTotal: decimal.Zero}
	for _, w := range Windows() {
		windowRows := byWindow[w]
		if len(windowRows) == 0 {
			continue
		}
		entries := make([]Entry, len(windowRows))
		for i, r := range windowRows {
			entries[i] = r.Entry
		}
		ws := WindowSummary{
			Window: w,
			Rows:   windowRows,
			ByType: SubtotalsByType(entries),
			Total:  SumValues(entries),
		}
		summary.Windows = append(summary.Windows, ws)
		summary.GrandTotal = summary.GrandTotal.Add(ws.Total)
	}
	return summary
}
