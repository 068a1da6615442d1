package theme

import (
	"testing"

	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestByNameFallsBackToFlexoki(t *testing.T) {
	assert.Equal(t, "tokyo-night", ByName("tokyo-night").Name)
	assert.Equal(t, FlexokiDark.Name, ByName("nope").Name)
}

func TestNamesAndKnown(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"flexoki-dark", "catppuccin-mocha", "tokyo-night", "terminal"}, names)
	for _, n := range names {
		assert.True(t, Known(n), n)
	}
	assert.False(t, Known("solarized"))
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)
	SetActive("terminal")
	assert.Equal(t, Terminal.Name, Active.Name)
}

func TestColorHelpers(t *testing.T) {
	th := FlexokiDark
	assert.Equal(t, th.Blue, th.ClassColor(model.Fixed))
	assert.Equal(t, th.Yellow, th.ClassColor(model.Flexible))
	assert.Equal(t, th.Red, th.SignColor(decimal.NewFromInt(-1)))
	assert.Equal(t, th.Green, th.SignColor(decimal.Zero))
}
