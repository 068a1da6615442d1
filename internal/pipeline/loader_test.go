package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlan = `gross_salary: 5000
commitments:
  - name: Rent
    amount: 1200.50
    class: fixed
  - name: Food
    amount: 600
`

func writePlan(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	res, err := Load(LoadOptions{DefaultGross: d("4030")})
	require.NoError(t, err)

	assert.Equal(t, SourceDefaults, res.Source)
	assert.Equal(t, 18, res.Session.Ledger.Len())
	assertDecimal(t, "4030", res.Session.Income.Gross)
}

func TestLoadPlanFile(t *testing.T) {
	res, err := Load(LoadOptions{PlanFile: writePlan(t, testPlan), DefaultGross: d("4030")})
	require.NoError(t, err)

	assert.Equal(t, SourcePlan, res.Source)
	assert.Equal(t, []string{"Rent", "Food"}, res.Session.Ledger.Names())
	assertDecimal(t, "5000", res.Session.Income.Gross)

	rent, _ := res.Session.Ledger.Get("Rent")
	assert.Equal(t, model.Fixed, rent.Classification)
	food, _ := res.Session.Ledger.Get("Food")
	assert.Equal(t, model.Flexible, food.Classification)
}

func TestLoadOverrideWins(t *testing.T) {
	override := d("7000")
	res, err := Load(LoadOptions{
		PlanFile:      writePlan(t, testPlan),
		DefaultGross:  d("4030"),
		GrossOverride: &override,
	})
	require.NoError(t, err)
	assertDecimal(t, "7000", res.Session.Income.Gross)
}

func TestLoadPlanWithoutSalaryUsesDefault(t *testing.T) {
	res, err := Load(LoadOptions{
		PlanFile:     writePlan(t, "commitments:\n  - name: Rent\n    amount: 100\n"),
		DefaultGross: d("4030"),
	})
	require.NoError(t, err)
	assertDecimal(t, "4030", res.Session.Income.Gross)
}

func TestLoadRejectsInvalidPlan(t *testing.T) {
	_, err := Load(LoadOptions{
		PlanFile:     writePlan(t, "commitments:\n  - name: Rent\n    amount: -100\n"),
		DefaultGross: d("4030"),
	})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = Load(LoadOptions{PlanFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	negative := d("-1")
	_, err = Load(LoadOptions{DefaultGross: d("4030"), GrossOverride: &negative})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
