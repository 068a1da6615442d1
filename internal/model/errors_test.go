package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidInputErrorMatching(t *testing.T) {
	err := ValidateAmount(decimal.NewFromInt(-5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var iie *InvalidInputError
	require.True(t, errors.As(err, &iie))
	assert.Equal(t, "amount", iie.Field)
	assert.Contains(t, err.Error(), "-5")
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Rent"))
	assert.ErrorIs(t, ValidateName(""), ErrInvalidInput)
	assert.ErrorIs(t, ValidateName("   "), ErrInvalidInput)
}

func TestNewIncome(t *testing.T) {
	inc, err := NewIncome(decimal.NewFromInt(4030))
	require.NoError(t, err)
	assert.True(t, inc.Gross.Equal(decimal.NewFromInt(4030)))

	_, err = NewIncome(decimal.Zero)
	assert.NoError(t, err)

	_, err = NewIncome(decimal.NewFromFloat(-0.01))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAmountRange(t *testing.T) {
	ok := []string{"0", "938.00", "999999999999.99", "0.00000001", "1e11"}
	for _, v := range ok {
		assert.NoError(t, ValidateAmount(decimal.RequireFromString(v)), v)
	}

	bad := []string{"1e12", "1000000000000", "1e2000000", "0e2000000", "0.000000001", "1e-2000000"}
	for _, v := range bad {
		err := ValidateAmount(decimal.RequireFromString(v))
		assert.ErrorIs(t, err, ErrInvalidInput, v)
	}

	_, err := NewIncome(decimal.RequireFromString("1e2000000"))
	var iie *InvalidInputError
	require.ErrorAs(t, err, &iie)
	assert.Equal(t, "gross salary", iie.Field)
}

func TestClassification(t *testing.T) {
	assert.Equal(t, Flexible, Fixed.Toggled())
	assert.Equal(t, Fixed, Flexible.Toggled())
	assert.Equal(t, Fixed, ParseClassification(" FIXED "))
	assert.Equal(t, Flexible, ParseClassification("flexible"))
	assert.Equal(t, Flexible, ParseClassification(""))
}
