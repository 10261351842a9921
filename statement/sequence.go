package statement

import (
	"sort"
	"strings"

	"github.com/warp/site-statement/generic"
)

// =============================================================================
// SEQUENCE CALCULATOR - Ordinal of a statement in the 5th/20th calendar
// =============================================================================

// DefaultSequence is used whenever the ordinal cannot be derived.
const DefaultSequence = 1

// Anchor is one issued statement harvested from the summary table.
type Anchor struct {
	Date     generic.TimePoint
	Declared int
}

// SequenceResult is the derived ordinal. When Resolved is false, Number is
// DefaultSequence and Unresolved explains why.
type SequenceResult struct {
	Number     int
	Resolved   bool
	Start      generic.TimePoint
	Unresolved *SequenceUnresolved
	Skipped    []ParseWarning
}

// HarvestAnchors reads (date, declared number) pairs from the summary table,
// sorted by date. Blank rows, rows labelled TOTAL and rows whose date or number does
// not parse are skipped; the last two are reported as warnings.
func HarvestAnchors(summary []generic.SummaryRow) ([]Anchor, []ParseWarning) {
	var (
		anchors  []Anchor
		warnings []ParseWarning
	)
	for i, row := range summary {
		label := strings.TrimSpace(row.Label)
		date := strings.TrimSpace(row.Date)
		number := strings.TrimSpace(row.Number)

		if label == "" && date == "" && number == "" {
			continue
		}
		if isTotalRow(label) {
			continue
		}

		d, err := generic.ParseDate(date)
		if err != nil {
			warnings = append(warnings, ParseWarning{Row: i + 1, Column: "SUMMARY_DATE", Value: date, Reason: "summary row skipped: unparsable date"})
			continue
		}
		n, err := parseInt(number)
		if err != nil {
			warnings = append(warnings, ParseWarning{Row: i + 1, Column: "SUMMARY_NUMBER", Value: number, Reason: "summary row skipped: unparsable sequence number"})
			continue
		}
		anchors = append(anchors, Anchor{Date: d, Declared: n})
	}

	sort.SliceStable(anchors, func(i, j int) bool {
		return anchors[i].Date.Before(anchors[j].Date)
	})
	return anchors, warnings
}

// SequenceNumber recomputes the ordinal of target from the earliest date of
// the summary table. Declared numbers are never trusted; they may be missing
// or wrong.
//
// The walk starts at 1 on the earliest date and advances one cycle date at a
// time. An exact hit returns the counter; reaching or passing the target
// without a hit returns DefaultSequence, unresolved.
func SequenceNumber(summary []generic.SummaryRow, target generic.TimePoint) SequenceResult {
	anchors, skipped := HarvestAnchors(summary)
	if len(anchors) == 0 {
		return SequenceResult{
			Number:     DefaultSequence,
			Unresolved: &SequenceUnresolved{Target: target},
			Skipped:    skipped,
		}
	}

	start := anchors[0].Date
	result := SequenceResult{Number: DefaultSequence, Start: start, Skipped: skipped}

	current := start
	for n := 1; !current.After(target); n++ {
		if current.Equal(target) {
			result.Number = n
			result.Resolved = true
			return result
		}
		current = generic.NextCycleDate(current)
	}

	result.Unresolved = &SequenceUnresolved{Target: target, Start: start}
	return result
}

// LatestAnchor returns the most recent issued statement date, or zero.
func LatestAnchor(summary []generic.SummaryRow) generic.TimePoint {
	anchors, _ := HarvestAnchors(summary)
	if len(anchors) == 0 {
		return generic.TimePoint{}
	}
	return anchors[len(anchors)-1].Date
}

func isTotalRow(label string) bool {
	return strings.Contains(strings.ToUpper(label), "TOTAL")
}
