package cli

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
	assert.Equal(t, "-4,030", FormatNumber(-4030))
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"4030":      "4,030.00",
		"3586.7":    "3,586.70",
		"6.5":       "6.50",
		"0":         "0.00",
		"-1110":     "-1,110.00",
		"97.999":    "98.00",
		"1234567.8": "1,234,567.80",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatAmount(decimal.RequireFromString(in)), in)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "RM 286.21", FormatMoney("RM", decimal.RequireFromString("286.21")))
	assert.Equal(t, "-RM 1,110.00", FormatMoney("RM", decimal.RequireFromString("-1110")))
	assert.Equal(t, "12.00", FormatMoney("", decimal.NewFromInt(12)))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "92.0%", FormatPercent(decimal.RequireFromString("92.0202"), 1))
	assert.Equal(t, "28.42%", FormatPercent(decimal.RequireFromString("28.42"), 2))
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" 1,234.50 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("1234.5")))

	_, err = ParseAmount("")
	assert.Error(t, err)
	_, err = ParseAmount("abc")
	assert.Error(t, err)

	d, err = ParseAmount("-5")
	require.NoError(t, err, "sign is validated by the ledger, not the parser")
	assert.True(t, d.IsNegative())
}

func TestIcon(t *testing.T) {
	assert.Equal(t, "🏠", Icon("Rumah Sewa"))
	assert.Equal(t, "🤖", Icon("Claude"))
	assert.Equal(t, DefaultIcon, Icon("Gym"))
}
