package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceCalculator(t *testing.T) {
	t.Run("applied comes from the ledger, not the cached field", func(t *testing.T) {
		cuota := newTestCuota(uuid.New(), 1, 1000)
		cuota.Applied = decimal.NewFromInt(999) // stale cache

		ledger, _ := newLedgerFixture(cuota)
		_, err := ledger.Apply(context.Background(), uuid.New(), cuota.ID, decimal.NewFromInt(400))
		require.NoError(t, err)

		balance, err := NewBalanceCalculator(ledger).BalanceOfCuota(context.Background(), cuota)
		require.NoError(t, err)

		assert.True(t, balance.Applied.Equal(decimal.NewFromInt(400)))
		assert.True(t, balance.Saldo.Equal(decimal.NewFromInt(600)))
		assert.Equal(t, "40.00", balance.PercentPaid.StringFixed(2))
	})

	t.Run("zero total reports fully paid", func(t *testing.T) {
		gasto := &Gasto{}
		ledger, _ := newLedgerFixture()

		balance, err := NewBalanceCalculator(ledger).BalanceOf(gasto, decimal.Zero)
		require.NoError(t, err)

		assert.True(t, balance.Total.IsZero())
		assert.True(t, balance.Saldo.IsZero())
		assert.True(t, balance.PercentPaid.Equal(decimal.NewFromInt(100)))
	})

	t.Run("percent rounds to two decimals", func(t *testing.T) {
		cuota := newTestCuota(uuid.New(), 1, 300)
		ledger, _ := newLedgerFixture(cuota)
		_, err := ledger.Apply(context.Background(), uuid.New(), cuota.ID, decimal.NewFromInt(100))
		require.NoError(t, err)

		balance, err := NewBalanceCalculator(ledger).BalanceOfCuota(context.Background(), cuota)
		require.NoError(t, err)
		assert.Equal(t, "33.33", balance.PercentPaid.StringFixed(2))
	})

	t.Run("explicit saldo on the record wins", func(t *testing.T) {
		honorario := &Honorario{Montos: MonetaryFields{MontoARS: ars(1000), Saldo: ars(120)}}
		ledger, _ := newLedgerFixture()

		balance, err := NewBalanceCalculator(ledger).BalanceOf(honorario, decimal.NewFromInt(400))
		require.NoError(t, err)
		assert.True(t, balance.Saldo.Equal(decimal.NewFromInt(120)))
	})
}

func TestRefreshCuota(t *testing.T) {
	cuota := newTestCuota(uuid.New(), 1, 500)
	cuotas := newMemCuotaRepo(cuota)
	allocations := newMemAllocationRepo()
	ledger := NewAllocationLedger(allocations, cuotas)
	calc := NewBalanceCalculator(ledger)

	_, err := ledger.Apply(context.Background(), uuid.New(), cuota.ID, decimal.NewFromInt(500))
	require.NoError(t, err)

	balance, changed, err := calc.RefreshCuota(context.Background(), cuota, cuotas)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, balance.Saldo.IsZero())
	assert.Equal(t, CuotaStatusPaid, cuota.Status)
	assert.True(t, cuota.Applied.Equal(decimal.NewFromInt(500)))

	// A second refresh with no ledger change reports no transition.
	_, changed, err = calc.RefreshCuota(context.Background(), cuota, cuotas)
	require.NoError(t, err)
	assert.False(t, changed)
}
