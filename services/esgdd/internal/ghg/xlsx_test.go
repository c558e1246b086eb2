package ghg

import (
	"bytes"
	"testing"

	"github.com/esgdesk/services/esgdd/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, axis, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestMatchHeaders(t *testing.T) {
	idx, missing := MatchHeaders([]string{"Scope 3 Category", "Month", "Description", "Qty", "UoM", "Emission Factor (kgCO2e/unit)", "Notes"})
	assert.Empty(t, missing)
	assert.Equal(t, 0, idx[colCategory])
	assert.Equal(t, 1, idx[colPeriod])
	assert.Equal(t, 2, idx[colActivity])
	assert.Equal(t, 3, idx[colQuantity])
	assert.Equal(t, 4, idx[colUnit])
	assert.Equal(t, 5, idx[colEmissionFactor])

	_, missing = MatchHeaders([]string{"category", "period", "quantity"})
	assert.ElementsMatch(t, []string{colUnit, colEmissionFactor}, missing)
}

func TestParseWorkbook(t *testing.T) {
	data := workbook(t, [][]interface{}{
		{"Category", "Period", "Activity", "Quantity", "Unit", "EF"},
		{"Business-Travel", "2026-01", "Flights", "1,200", "km", "0.15"},
		{"waste-generated", "Feb 2026", "Landfill", "abc", "t", "500"},
		{"waste-generated", "sometime", "Landfill", "2", "t", "500"},
		{"capital-goods", "2026/03", "Machinery", "10", "kg", ""},
	})

	rows, errs, err := ParseWorkbook(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, "business-travel", rows[0].Input.Category)
	assert.Equal(t, "1200", rows[0].Input.Quantity.String())

	require.Len(t, errs, 3)
	assert.Equal(t, 3, errs[0].Row)
	assert.Equal(t, 4, errs[1].Row)
	assert.Equal(t, 5, errs[2].Row)
}

func TestParseWorkbookMissingColumns(t *testing.T) {
	data := workbook(t, [][]interface{}{{"Category", "Period"}, {"franchises", "2026-01"}})
	_, _, err := ParseWorkbook(bytes.NewReader(data))
	assert.ErrorContains(t, err, "quantity")

	_, _, err = ParseWorkbook(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestWriteWorkbookRoundTrip(t *testing.T) {
	entries := []model.GhgEntry{
		{Category: "business-travel", Period: "2026-01", Activity: "Rail", Quantity: dec("40"), Unit: "km",
			NormalizedQuantity: dec("40"), BaseUnit: "km", EmissionFactor: dec("0.035"), Emissions: dec("1.4"), Source: model.SourceManual},
	}
	buf, err := WriteWorkbook(entries)
	require.NoError(t, err)

	rows, errs, err := ParseWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rail", rows[0].Input.Activity)
	assert.True(t, dec("0.035").Equal(*rows[0].Input.EmissionFactor))
}
