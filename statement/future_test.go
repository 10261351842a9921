package statement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/site-statement/statement"
)

// =============================================================================
// WINDOW TESTS
// =============================================================================

func TestWindowFor_Boundaries(t *testing.T) {
	target := date("05/02/2025")

	tests := []struct {
		offset int
		want   statement.Window
	}{
		{1, statement.WindowNext30},
		{29, statement.WindowNext30},
		{30, statement.WindowNext30}, // boundary belongs to the lower bucket
		{31, statement.Window31To60},
		{60, statement.Window31To60},
		{61, statement.WindowAfter60},
		{365, statement.WindowAfter60},
	}

	for _, tt := range tests {
		got := statement.WindowFor(target, target.AddDays(tt.offset))
		assert.Equal(t, tt.want, got, "target + %d days", tt.offset)
	}
}

// =============================================================================
// BUCKETING TESTS
// =============================================================================

func futureRows(target string, entries ...statement.Entry) []statement.FutureRow {
	rows := make([]statement.FutureRow, len(entries))
	for i, e := range entries {
		rows[i] = statement.FutureRow{Entry: e, Window: statement.WindowFor(date(target), e.ReportingDate)}
	}
	return rows
}

func TestBucketFuture_SubtotalsAndGrandTotal(t *testing.T) {
	// GIVEN: Future rows spread over two windows and three types
	// WHEN: Bucketing
	// THEN: Per-type and per-window subtotals plus one grand total, empty windows omitted

	rows := futureRows("05/02/2025",
		entry("20/02/2025", statement.TypeTransfers, "Loja", "a", "", "100"),
		entry("20/02/2025", statement.TypeInvoiced, "Loja", "b", "", "50"),
		entry("05/03/2025", statement.TypeTransfers, "Loja", "c", "", "25"),
		entry("20/05/2025", statement.TypeSiteAdmin, "Adm", "d", "", "10"),
	)

	summary := statement.BucketFuture(rows)

	require.Len(t, summary.Windows, 2)

	next := summary.Windows[0]
	assert.Equal(t, statement.WindowNext30, next.Window)
	assert.Len(t, next.Rows, 3)
	assert.True(t, next.Total.Equal(dec("175")))
	require.Len(t, next.ByType, 2)
	assert.Equal(t, statement.TypeTransfers, next.ByType[0].Type)
	assert.True(t, next.ByType[0].Total.Equal(dec("125")))
	assert.Equal(t, 2, next.ByType[0].Count)
	assert.Equal(t, statement.TypeInvoiced, next.ByType[1].Type)
	assert.True(t, next.ByType[1].Total.Equal(dec("50")))

	after := summary.Windows[1]
	assert.Equal(t, statement.WindowAfter60, after.Window)
	assert.True(t, after.Total.Equal(dec("10")))

	assert.True(t, summary.GrandTotal.Equal(dec("185")))
}

func TestBucketFuture_Empty(t *testing.T) {
	summary := statement.BucketFuture(nil)

	assert.Empty(t, summary.Windows)
	assert.True(t, summary.GrandTotal.IsZero())
}
