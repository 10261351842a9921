package statement

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORIES - Enum-keyed alias table
// =============================================================================

type Category string

const (
	CategorySalaryVacation Category = "salary_vacation"
	CategorySeverance      Category = "severance_13th"
	CategoryTransportMeal  Category = "transport_meal"
	CategoryDaily          Category = "daily"
)

// CategoryTable maps each category to the references it absorbs.
type CategoryTable struct {
	Order         []Category
	Aliases       map[Category][]string
	DaysReference string // row whose Days becomes the consolidated Days
}

// PayrollCategories is the three-category table used for payroll.
var PayrollCategories = CategoryTable{
	Order: []Category{CategorySalaryVacation, CategorySeverance, CategoryTransportMeal},
	Aliases: map[Category][]string{
		CategorySalaryVacation: {"SALARY", "VACATION"},
		CategorySeverance:      {"SEVERANCE", "13TH-SALARY"},
		CategoryTransportMeal:  {"TRANSPORT", "MEAL-ALLOWANCE"},
	},
	DaysReference: ReferenceTransport,
}

// PerDiemCategories consolidates daily-rate rows per person.
var PerDiemCategories = CategoryTable{
	Order:         []Category{CategoryDaily},
	Aliases:       map[Category][]string{CategoryDaily: {ReferenceDaily}},
	DaysReference: ReferenceDaily,
}

// CategoryOf returns the category reference belongs to.
func (t CategoryTable) CategoryOf(reference string) (Category, bool) {
	for _, c := range t.Order {
		for _, alias := range t.Aliases[c] {
			if referenceIs(reference, alias) {
				return c, true
			}
		}
	}
	return "", false
}

// =============================================================================
// CONSOLIDATED ROW
// =============================================================================

// ConsolidatedRow merges every entry of one person.
//
// Total is the sum of the category subtotals, which is the figure printed
// on the statement. GroupTotal is the plain sum of the person's entries;
// any difference is in Unmapped and comes from references outside the table.
type ConsolidatedRow struct {
	Person             string                       `json:"person"`
	Subtotals          map[Category]decimal.Decimal `json:"subtotals"`
	Days               int                          `json:"days"`
	BankDetails        string                       `json:"bank_details"`
	Total              decimal.Decimal              `json:"total"`
	GroupTotal         decimal.Decimal              `json:"group_total"`
	Unmapped           decimal.Decimal              `json:"unmapped"`
	UnmappedReferences []string                     `json:"unmapped_references,omitempty"`
}

// Subtotal returns the subtotal of c (zero when absent).
func (r ConsolidatedRow) Subtotal(c Category) decimal.Decimal {
	if v, ok := r.Subtotals[c]; ok {
		return v
	}
	return decimal.Zero
}

// HasDiscrepancy reports whether unmapped references were left out of Total.
func (r ConsolidatedRow) HasDiscrepancy() bool {
	return !r.Unmapped.IsZero() || len(r.UnmappedReferences) > 0
}

// Consolidate groups entries by person using table. Rows come out sorted
// by person name.
func Consolidate(entries []Entry, table CategoryTable) []ConsolidatedRow {
	groups := make(map[string][]Entry)
	var people []string
	for _, e := range entries {
		if _, ok := groups[e.Person]; !ok {
			people = append(people, e.Person)
		}
		groups[e.Person] = append(groups[e.Person], e)
	}
	sort.Strings(people)

	rows := make([]ConsolidatedRow, 0, len(people))
	for _, person := range people {
		rows = append(rows, consolidateGroup(person, groups[person], table))
	}
	return rows
}

func consolidateGroup(person string, group []Entry, table CategoryTable) ConsolidatedRow {
	row := ConsolidatedRow{
		Person:      person,
		Subtotals:   make(map[Category]decimal.Decimal, len(table.Order)),
		BankDetails: group[0].BankDetails,
		Total:       decimal.Zero,
		GroupTotal:  decimal.Zero,
	}
	for _, c := range table.Order {
		row.Subtotals[c] = decimal.Zero
	}

	daysFound := false
	seenUnmapped := make(map[string]bool)
	for _, e := range group {
		row.GroupTotal = row.GroupTotal.Add(e.Value)

		if !daysFound && referenceIs(e.Reference, table.DaysReference) {
			row.Days = e.DaysOrZero()
			daysFound = true
		}

		c, ok := table.CategoryOf(e.Reference)
		if !ok {
			ref := strings.TrimSpace(e.Reference)
			if !seenUnmapped[ref] {
				seenUnmapped[ref] = true
				row.UnmappedReferences = append(row.UnmappedReferences, ref)
			}
			continue
		}
		row.Subtotals[c] = row.Subtotals[c].Add(e.Value)
	}

	for _, c := range table.Order {
		row.Total = row.Total.Add(row.Subtotals[c])
	}
	row.Unmapped = row.GroupTotal.Sub(row.Total)
	return row
}

// ConsolidatedTotal sums the statement totals of rows.
func ConsolidatedTotal(rows []ConsolidatedRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Total)
	}
	return total
}

// Discrepancy is one person whose unmapped references were excluded.
type Discrepancy struct {
	Person     string          `json:"person"`
	Total      decimal.Decimal `json:"total"`
	GroupTotal decimal.Decimal `json:"group_total"`
	Unmapped   decimal.Decimal `json:"unmapped"`
	References []string        `json:"references"`
}

// Discrepancies lists rows where Total and GroupTotal disagree.
func Discrepancies(rows []ConsolidatedRow) []Discrepancy {
	var out []Discrepancy
	for _, r := range rows {
		if !r.HasDiscrepancy() {
			continue
		}
		out = append(out, Discrepancy{
			Person:     r.Person,
			Total:      r.Total,
			GroupTotal: r.GroupTotal,
			Unmapped:   r.Unmapped,
			References: r.UnmappedReferences,
		})
	}
	return out
}
