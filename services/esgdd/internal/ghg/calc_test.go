package ghg

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		qty, unit string
		want      string
		base      string
	}{
		{"2.5", "t", "2500", "kg"},
		{"2.5", "Tonne", "2500", "kg"},
		{"500", "g", "0.5", "kg"},
		{"10", "lb", "4.535924", "kg"},
		{"3", "MWh", "3000", "kWh"},
		{"36", "GJ", "10000", "kWh"},
		{"2", "m3", "2000", "L"},
		{"1500", "m", "1.5", "km"},
		{"100", "usd", "100", "USD"},
	}
	for _, tt := range tests {
		t.Run(tt.qty+tt.unit, func(t *testing.T) {
			got, base, err := Normalize(dec(tt.qty), tt.unit)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
			assert.Equal(t, tt.base, base)
		})
	}

	_, _, err := Normalize(dec("1"), "furlong")
	assert.Error(t, err)
}

func TestEmissions(t *testing.T) {
	normalized, _, err := Normalize(dec("1.2"), "t")
	require.NoError(t, err)
	got := Emissions(normalized, dec("2.68"))
	assert.True(t, dec("3216").Equal(got), "got %s", got)

	assert.True(t, Emissions(dec("0.1"), dec("0.2")).Equal(dec("0.02")))
}

func TestValidPeriod(t *testing.T) {
	assert.True(t, ValidPeriod("2026-01"))
	assert.True(t, ValidPeriod("2025-12"))
	assert.False(t, ValidPeriod("2026-13"))
	assert.False(t, ValidPeriod("2026-1"))
	assert.False(t, ValidPeriod("2026/01"))
	assert.False(t, ValidPeriod(""))
}

func TestNormalizePeriod(t *testing.T) {
	for _, raw := range []string{"2026-03", "2026/03", "2026-03-31", "Mar 2026", "March 2026", " 2026-03 "} {
		got, err := NormalizePeriod(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "2026-03", got, raw)
	}
	_, err := NormalizePeriod("Q1 2026")
	assert.Error(t, err)
}

func TestValidCategory(t *testing.T) {
	assert.Len(t, Categories, 15)
	assert.True(t, ValidCategory("business-travel"))
	assert.False(t, ValidCategory("Business Travel"))
}

func TestUnitsSortedAndNormalizable(t *testing.T) {
	us := Units()
	require.NotEmpty(t, us)
	for i, u := range us {
		if i > 0 {
			assert.Less(t, us[i-1].Unit, u.Unit)
		}
		_, base, err := Normalize(dec("1"), u.Unit)
		require.NoError(t, err)
		assert.Equal(t, u.Base, base)
	}
}
