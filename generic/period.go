package generic

import "time"

// =============================================================================
// REPORTING CALENDAR - Bi-weekly cycle on the 5th and the 20th
// =============================================================================

// Statements close twice a month. The cycle days are fixed.
const (
	FirstCycleDay  = 5
	SecondCycleDay = 20
)

// NextCycleDate returns the cycle date that follows d.
//
//	day 5  -> day 20 of the same month
//	day 20 -> day 5 of the next month (December rolls into January)
//
// Off-cycle days advance to the nearest following 5th or 20th.
func NextCycleDate(d TimePoint) TimePoint {
	switch {
	case d.Day() < FirstCycleDay:
		return NewTimePoint(d.Year(), d.Month(), FirstCycleDay)
	case d.Day() < SecondCycleDay:
		return NewTimePoint(d.Year(), d.Month(), SecondCycleDay)
	default:
		next := time.Date(d.Year(), d.Month()+1, FirstCycleDay, 0, 0, 0, 0, time.UTC)
		return FromTime(next)
	}
}

// IsCycleDate reports whether d falls on a statement day.
func IsCycleDate(d TimePoint) bool {
	return !d.IsZero() && (d.Day() == FirstCycleDay || d.Day() == SecondCycleDay)
}

// =============================================================================
// PERIOD - Inclusive day range
// =============================================================================

// Period is an inclusive range of days [Start, End].
type Period struct {
	Start TimePoint `json:"start"`
	End   TimePoint `json:"end"`
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// CyclePeriod returns the days covered by the statement closing on d:
// from the day after the previous cycle date up to d.
func CyclePeriod(d TimePoint) Period {
	var prev TimePoint
	switch {
	case d.Day() <= FirstCycleDay:
		prev = FromTime(time.Date(d.Year(), d.Month()-1, SecondCycleDay, 0, 0, 0, 0, time.UTC))
	case d.Day() <= SecondCycleDay:
		prev = NewTimePoint(d.Year(), d.Month(), FirstCycleDay)
	default:
		prev = NewTimePoint(d.Year(), d.Month(), SecondCycleDay)
	}
	return Period{Start: prev.AddDays(1), End: d}
}
