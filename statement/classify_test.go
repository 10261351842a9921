package statement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/site-statement/statement"
)

// =============================================================================
// PARTITION TESTS
// =============================================================================

func TestClassify_PartitionsByTypeAndReference(t *testing.T) {
	entries := []statement.Entry{
		entry("05/02/2025", statement.TypeTransfers, "Loja", "Cement", "", "300"),
		entry("20/01/2025", statement.TypeTransfers, "Loja", "Sand", "", "200"),
		entry("05/02/2025", statement.TypePersonnel, "Ana", "DAILY", "", "90"),
		entry("05/02/2025", statement.TypePersonnel, "João", "SALARY", "", "1000"),
		entry("05/02/2025", statement.TypePersonnel, "João", "TRANSPORT", "", "200"),
		entry("20/02/2025", statement.TypeInvoiced, "Loja", "Steel", "", "400"),
		entry("20/02/2025", statement.TypePersonnel, "João", "SALARY", "", "1000"),
	}

	b := statement.Classify(entries, statement.Request{TargetDate: date("05/02/2025")})

	assert.Equal(t, []string{"Cement"}, references(b.Filtered))
	assert.Equal(t, []string{"DAILY"}, references(b.PerDiem))
	assert.Equal(t, []string{"SALARY", "TRANSPORT"}, references(b.Payroll))
	assert.Empty(t, b.Future, "future rows only when requested")
}

func TestClassify_DailyMatchIsTrimmedAndCaseInsensitive(t *testing.T) {
	entries := []statement.Entry{
		entry("05/02/2025", statement.TypePersonnel, "Ana", " daily ", "", "90"),
	}

	b := statement.Classify(entries, statement.Request{TargetDate: date("05/02/2025")})

	assert.Len(t, b.PerDiem, 1)
	assert.Empty(t, b.Payroll)
}

func TestClassify_SkipsUnknownTypesAndUndatedEntries(t *testing.T) {
	entries := []statement.Entry{
		entry("05/02/2025", statement.TypeUnknown, "Loja", "Other", "", "10"),
		entry("", statement.TypeTransfers, "Loja", "Undated", "", "10"),
		entry("05/02/2025", statement.TypeSiteAdmin, "Adm", "Fee", "", "10"),
	}

	b := statement.Classify(entries, statement.Request{TargetDate: date("05/02/2025"), IncludeFuture: true})

	assert.Equal(t, []string{"Fee"}, references(b.Filtered))
	assert.Empty(t, b.Future)
}

// =============================================================================
// SORT CONTRACT TESTS
// =============================================================================

func TestClassify_FilteredSortsDueAscending(t *testing.T) {
	// GIVEN: Filtered rows with mixed types, due dates and values
	// WHEN: Classifying
	// THEN: type asc, due date asc (absent last), then value desc

	entries := []statement.Entry{
		entry("05/02/2025", statement.TypeInvoiced, "Loja", "t3", "", "5"),
		entry("05/02/2025", statement.TypeTransfers, "Loja", "t2-late-small", "10/02/2025", "50"),
		entry("05/02/2025", statement.TypeTransfers, "Loja", "t2-nodue", "", "999"),
		entry("05/02/2025", statement.TypeTransfers, "Loja", "t2-late-big", "10/02/2025", "80"),
		entry("05/02/2025", statement.TypeTransfers, "Loja", "t2-early", "01/02/2025", "10"),
	}

	b := statement.Classify(entries, statement.Request{TargetDate: date("05/02/2025")})

	assert.Equal(t, []string{"t2-early", "t2-late-big", "t2-late-small", "t2-nodue", "t3"}, references(b.Filtered))
}

func TestClassify_PerDiemSortsDueDescending(t *testing.T) {
	// GIVEN: Per-diem rows with the same shape as the filtered test
	// WHEN: Classifying
	// THEN: due dates sort DESCENDING here, unlike filtered rows; absent still last

	entries := []statement.Entry{
		entry("05/02/2025", statement.TypePersonnel, "Ana", "DAILY", "01/02/2025", "10"),
		entry("05/02/2025", statement.TypePersonnel, "Bia", "DAILY", "", "99"),
		entry("05/02/2025", statement.TypePersonnel, "Caio", "DAILY", "10/02/2025", "20"),
		entry("05/02/2025", statement.TypePersonnel, "Davi", "DAILY", "10/02/2025", "30"),
	}

	b := statement.Classify(entries, statement.Request{TargetDate: date("05/02/2025")})

	require.Len(t, b.PerDiem, 4)
	assert.Equal(t, []string{"30", "20", "10", "99"}, values(b.PerDiem))
}

func TestClassify_PayrollKeepsSourceOrder(t *testing.T) {
	entries := []statement.Entry{
		entry("05/02/2025", statement.TypePersonnel, "Zeca", "SALARY", "", "1"),
		entry("05/02/2025", statement.TypePersonnel, "Ana", "SALARY", "", "2"),
		entry("05/02/2025", statement.TypePersonnel, "Zeca", "TRANSPORT", "", "3"),
	}

	b := statement.Classify(entries, statement.Request{TargetDate: date("05/02/2025")})

	assert.Equal(t, []string{"1", "2", "3"}, values(b.Payroll))
}

// =============================================================================
// FUTURE ROWS
// =============================================================================

func TestClassify_FutureRowsSortedAndTagged(t *testing.T) {
	entries := []statement.Entry{
		entry("10/05/2025", statement.TypeTransfers, "Loja", "far", "15/05/2025", "30"),
		entry("20/02/2025", statement.TypeTransfers, "Loja", "near", "25/02/2025", "10"),
		entry("20/03/2025", statement.TypeInvoiced, "Loja", "mid", "22/03/2025", "20"),
		entry("20/02/2025", statement.TypePersonnel, "João", "SALARY", "", "1000"),
		entry("20/01/2025", statement.TypeTransfers, "Loja", "past", "", "5"),
	}

	b := statement.Classify(entries, statement.Request{TargetDate: date("05/02/2025"), IncludeFuture: true})

	require.Len(t, b.Future, 3)
	assert.Equal(t, "near", b.Future[0].Reference)
	assert.Equal(t, statement.WindowNext30, b.Future[0].Window)
	assert.Equal(t, "mid", b.Future[1].Reference)
	assert.Equal(t, statement.Window31To60, b.Future[1].Window)
	assert.Equal(t, "far", b.Future[2].Reference)
	assert.Equal(t, statement.WindowAfter60, b.Future[2].Window)
}

func TestClassify_DoesNotModifyInput(t *testing.T) {
	entries := []statement.Entry{
		entry("05/02/2025", statement.TypeInvoiced, "Loja", "b", "", "5"),
		entry("05/02/2025", statement.TypeTransfers, "Loja", "a", "", "5"),
	}

	_ = statement.Classify(entries, statement.Request{TargetDate: date("05/02/2025")})

	assert.Equal(t, []string{"b", "a"}, references(entries))
}
