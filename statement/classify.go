package statement

import (
	"sort"
	"strings"
)

// =============================================================================
// CLASSIFIED BUNDLE - Entries partitioned for one statement
// =============================================================================

// Bundle is the classifier output for one target date.
type Bundle struct {
	Filtered []Entry     // type != 1, on the target date
	PerDiem  []Entry     // type 1, reference DAILY, on the target date
	Payroll  []Entry     // type 1, any other reference, on the target date
	Future   []FutureRow // type != 1, after the target date (IncludeFuture only)
}

// FutureRow is an upcoming entry tagged with its window.
type FutureRow struct {
	Entry
	Window Window `json:"period"`
}

// Classify partitions entries for req. Pure: entries are not modified.
//
// Presentation order is part of the contract:
//   - Filtered: type asc, due date asc, value desc
//   - PerDiem:  type asc, due date DESC, value desc
//   - Payroll:  source order (consolidation regroups by person)
//   - Future:   due date asc
//
// Filtered and PerDiem sort due dates in opposite directions. Both reports
// have always been printed that way, so the rules are kept separate.
// Absent due dates sort last in every direction.
func Classify(entries []Entry, req Request) Bundle {
	var b Bundle
	target := req.TargetDate

	for _, e := range entries {
		if !e.Type.Valid() || e.ReportingDate.IsZero() {
			continue
		}
		switch {
		case e.ReportingDate.Equal(target) && e.Type != TypePersonnel:
			b.Filtered = append(b.Filtered, e)
		case e.ReportingDate.Equal(target) && IsPerDiem(e):
			b.PerDiem = append(b.PerDiem, e)
		case e.ReportingDate.Equal(target):
			b.Payroll = append(b.Payroll, e)
		case req.IncludeFuture && e.ReportingDate.After(target) && e.Type != TypePersonnel:
			b.Future = append(b.Future, FutureRow{Entry: e, Window: WindowFor(target, e.ReportingDate)})
		}
	}

	sort.SliceStable(b.Filtered, func(i, j int) bool {
		x, y := b.Filtered[i], b.Filtered[j]
		if x.Type != y.Type {
			return x.Type < y.Type
		}
		if c := compareDue(x, y, false); c != 0 {
			return c < 0
		}
		return x.Value.GreaterThan(y.Value)
	})

	sort.SliceStable(b.PerDiem, func(i, j int) bool {
		x, y := b.PerDiem[i], b.PerDiem[j]
		if x.Type != y.Type {
			return x.Type < y.Type
		}
		if c := compareDue(x, y, true); c != 0 {
			return c < 0
		}
		return x.Value.GreaterThan(y.Value)
	})

	sort.SliceStable(b.Future, func(i, j int) bool {
		return compareDue(b.Future[i].Entry, b.Future[j].Entry, false) < 0
	})

	return b
}

// IsPerDiem reports whether e is a daily-rate labor payment.
func IsPerDiem(e Entry) bool {
	return e.Type == TypePersonnel && referenceIs(e.Reference, ReferenceDaily)
}

// compareDue orders entries by due date, absent last regardless of direction.
func compareDue(x, y Entry, descending bool) int {
	switch {
	case !x.HasDueDate() && !y.HasDueDate():
		return 0
	case !x.HasDueDate():
		return 1
	case !y.HasDueDate():
		return -1
	case x.DueDate.Equal(y.DueDate):
		return 0
	}
	less := x.DueDate.Before(y.DueDate)
	if descending {
		less = !less
	}
	if less {
		return -1
	}
	return 1
}

func referenceIs(reference, marker string) bool {
	return strings.EqualFold(strings.TrimSpace(reference), marker)
}
