package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), ARS)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, ARS, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyARSFromFloat(100.50)
	b := NewMoneyARSFromFloat(50.25)

	t.Run("Add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "150.75", sum.StringFixed(2))
	})

	t.Run("Subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "50.25", diff.StringFixed(2))
	})

	t.Run("currency mismatch fails", func(t *testing.T) {
		usd, err := NewMoney(decimal.NewFromInt(10), USD)
		require.NoError(t, err)
		_, err = a.Add(usd)
		assert.Error(t, err)
		_, err = a.Subtract(usd)
		assert.Error(t, err)
		_, err = a.LessThan(usd)
		assert.Error(t, err)
	})

	t.Run("Multiply and Round half-up", func(t *testing.T) {
		m := NewMoneyARSFromString
		units, err := m("3.5")
		require.NoError(t, err)
		// 3.5 * 41234.505 = 144320.7675 -> 144320.77
		got := units.Multiply(decimal.RequireFromString("41234.505")).Round(2)
		assert.Equal(t, "144320.77", got.StringFixed(2))
	})
}

func TestMoneyComparisons(t *testing.T) {
	a := NewMoneyARSFromFloat(10)
	b := NewMoneyARSFromFloat(20)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	assert.True(t, a.Equals(NewMoneyARSFromFloat(10)))
	assert.False(t, a.Equals(b))
	assert.True(t, ZeroARS().IsZero())
	assert.True(t, b.IsPositive())
	assert.True(t, b.Negate().IsNegative())
}

func TestMoneyJSON(t *testing.T) {
	m := NewMoneyARSFromFloat(1234.56)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"1234.56","currency":"ARS"}`, string(data))

	var parsed Money
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, m.Equals(parsed))
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("99.90"))
		assert.Equal(t, "99.90", m.StringFixed(2))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans nil as zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(42))
	})
}
