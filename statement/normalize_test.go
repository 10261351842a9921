package statement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/site-statement/generic"
	"github.com/warp/site-statement/statement"
)

// =============================================================================
// SCHEMA TESTS
// =============================================================================

func TestNormalize_MissingRequiredColumns(t *testing.T) {
	// GIVEN: A ledger without DUE_DATE and INVOICE columns
	// WHEN: Normalizing
	// THEN: A SchemaError lists both, and it unwraps to ErrSchema

	raw := generic.RawLedger{
		Name:    "obra",
		Columns: []string{generic.ColReportingDate, generic.ColType, generic.ColReference, generic.ColValue},
	}

	_, err := statement.Normalize(raw)

	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrSchema)
	var schemaErr *statement.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "obra", schemaErr.Ledger)
	assert.Equal(t, []string{generic.ColDueDate, generic.ColInvoice}, schemaErr.Missing)
}

// =============================================================================
// FIELD COERCION TESTS
// =============================================================================

func TestNormalize_TypedFields(t *testing.T) {
	raw := rawLedger("obra", rec("05/02/2025", "2", "Casa do Cimento", "Cement", "10/02/2025", "R$ 1.234,56", ""))
	raw.Records[0][generic.ColBankDetails] = "Bank 001 / 1234-5"

	out, err := statement.Normalize(raw)

	require.NoError(t, err)
	require.Len(t, out.Entries, 1)
	assert.Empty(t, out.Warnings)

	e := out.Entries[0]
	assert.Equal(t, 1, e.Row)
	assert.True(t, e.ReportingDate.Equal(date("05/02/2025")))
	assert.Equal(t, statement.TypeTransfers, e.Type)
	assert.Equal(t, "Casa do Cimento", e.Person)
	assert.Equal(t, "Cement", e.Reference)
	assert.True(t, e.DueDate.Equal(date("10/02/2025")))
	assert.True(t, e.Value.Equal(dec("1234.56")))
	assert.Equal(t, "Bank 001 / 1234-5", e.BankDetails)
	assert.Nil(t, e.Days)
	assert.Nil(t, e.UnitValue)
}

func TestNormalize_InvoiceTag(t *testing.T) {
	// GIVEN: Non-personnel rows with and without invoices, and a personnel row with one
	// WHEN: Normalizing
	// THEN: Only non-personnel rows with a real invoice get "(NF: n)"

	raw := rawLedger("obra",
		rec("05/02/2025", "3", "Loja", "Cement", "", "100,00", "12345.0"),
		rec("05/02/2025", "3", "Loja", "Sand", "", "100,00", "nan"),
		rec("05/02/2025", "2", "Loja", "Lease", "", "100,00", ""),
		rec("05/02/2025", "1", "João", "SALARY", "", "100,00", "999"),
		rec("05/02/2025", "3", "Loja", "", "", "100,00", "77"),
	)

	out, err := statement.Normalize(raw)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"Cement (NF: 12345)",
		"Sand",
		"Lease",
		"SALARY",
		"(NF: 77)",
	}, references(out.Entries))
	assert.Equal(t, "12345", out.Entries[0].InvoiceNumber)
	assert.Equal(t, "", out.Entries[1].InvoiceNumber)
}

func TestTagReference_Idempotent(t *testing.T) {
	once := statement.TagReference("Cement", "42")
	twice := statement.TagReference(once, "42")

	assert.Equal(t, "Cement (NF: 42)", once)
	assert.Equal(t, once, twice)
}

func TestNormalize_MalformedCellsDegradeToDefaults(t *testing.T) {
	// GIVEN: Cells that do not parse
	// WHEN: Normalizing
	// THEN: Safe defaults and one ParseWarning per cell, never an error

	raw := rawLedger("obra",
		rec("05/02/2025", "2", "Loja", "Cement", "soon", "a lot", ""),
		rec("05/02/2025", "9", "Loja", "Other", "", "10,00", ""),
		rec("someday", "2", "Loja", "Sand", "", "5,00", ""),
	)
	raw.Records[0][generic.ColDays] = "many"

	out, err := statement.Normalize(raw)

	require.NoError(t, err)
	require.Len(t, out.Entries, 3)

	first := out.Entries[0]
	assert.True(t, first.Value.IsZero())
	assert.True(t, first.DueDate.IsZero())
	assert.False(t, first.HasDueDate())
	assert.Nil(t, first.Days)

	assert.Equal(t, statement.TypeUnknown, out.Entries[1].Type)
	assert.True(t, out.Entries[2].ReportingDate.IsZero())

	columns := make([]string, len(out.Warnings))
	for i, w := range out.Warnings {
		columns[i] = w.Column
		assert.ErrorIs(t, &out.Warnings[i], generic.ErrParse)
	}
	assert.ElementsMatch(t, []string{
		generic.ColDueDate, generic.ColValue, generic.ColDays,
		generic.ColType,
		generic.ColReportingDate,
	}, columns)
}

func TestNormalize_PersonnelDaysAndUnitValue(t *testing.T) {
	raw := rawLedger("obra", rec("05/02/2025", "1", "João", "DAILY", "", "1.100,00", ""))
	raw.Records[0][generic.ColDays] = "22.0"
	raw.Records[0][generic.ColUnitValue] = "R$ 50,00"

	out, err := statement.Normalize(raw)

	require.NoError(t, err)
	e := out.Entries[0]
	require.NotNil(t, e.Days)
	assert.Equal(t, 22, *e.Days)
	require.NotNil(t, e.UnitValue)
	assert.True(t, e.UnitValue.Equal(dec("50")))
}

func TestNormalize_SkipsBlankRowsKeepingRowNumbers(t *testing.T) {
	raw := rawLedger("obra",
		rec("05/02/2025", "2", "Loja", "Cement", "", "10,00", ""),
		rec("", "", "", "", "", "", ""),
		rec("05/02/2025", "2", "Loja", "Sand", "", "20,00", ""),
	)

	out, err := statement.Normalize(raw)

	require.NoError(t, err)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, 1, out.Entries[0].Row)
	assert.Equal(t, 3, out.Entries[1].Row)
	assert.Empty(t, out.Warnings)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := rawLedger("obra", rec("05/02/2025", "3", "Loja", "Cement", "", "10,00", "5"))

	_, err := statement.Normalize(raw)

	require.NoError(t, err)
	assert.Equal(t, "Cement", raw.Records[0][generic.ColReference])
}

// =============================================================================
// IDEMPOTENCE
// =============================================================================

func TestNormalize_ReapplyingIsIdempotent(t *testing.T) {
	// GIVEN: A ledger normalized once
	// WHEN: Its entries are rendered back to records and normalized again
	// THEN: No double invoice tag and every value is stable

	raw := rawLedger("obra",
		rec("05/02/2025", "3", "Loja", "Cement", "10/02/2025", "R$ 1.234,56", "12345"),
		rec("05/02/2025", "1", "João", "TRANSPORT", "", "200", ""),
		rec("20/01/2025", "2", "Locadora", "Lease", "", "-50,5", "88.0"),
		rec("20/01/2025", "2", "Locadora", "Crane", "", "1234.567", ""),
	)
	raw.Records[1][generic.ColDays] = "22"
	raw.Records[3][generic.ColUnitValue] = "12,3456"

	first, err := statement.Normalize(raw)
	require.NoError(t, err)

	second, err := statement.Normalize(statement.ToRawLedger("obra", first.Entries))
	require.NoError(t, err)

	require.Len(t, second.Entries, len(first.Entries))
	assert.Empty(t, second.Warnings)
	for i := range first.Entries {
		a, b := first.Entries[i], second.Entries[i]
		assert.Equal(t, a.Reference, b.Reference)
		assert.Equal(t, a.Type, b.Type)
		assert.Equal(t, a.InvoiceNumber, b.InvoiceNumber)
		assert.True(t, a.Value.Equal(b.Value), "row %d: %s != %s", i, a.Value, b.Value)
		assert.True(t, a.ReportingDate.Equal(b.ReportingDate))
		assert.True(t, a.DueDate.Equal(b.DueDate))
		assert.Equal(t, a.DaysOrZero(), b.DaysOrZero())
	}
	assert.Equal(t, "Cement (NF: 12345)", second.Entries[0].Reference)
	assert.Equal(t, "Lease (NF: 88)", second.Entries[2].Reference)

	// machine decimals keep every place through the round trip
	assert.Equal(t, "1234.567", second.Entries[3].Value.String())
	require.NotNil(t, second.Entries[3].UnitValue)
	assert.Equal(t, "12.3456", second.Entries[3].UnitValue.String())
}

func TestNormalizeInvoice(t *testing.T) {
	assert.Equal(t, "12345", statement.NormalizeInvoice("12345.0"))
	assert.Equal(t, "12345", statement.NormalizeInvoice(" 12345 "))
	assert.Equal(t, "A-12.0", statement.NormalizeInvoice("A-12.0"))
	assert.Equal(t, "", statement.NormalizeInvoice("NaN"))
	assert.Equal(t, "", statement.NormalizeInvoice("None"))
}
