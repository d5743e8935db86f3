package report

import (
	"context"
	"testing"
	"time"

	"github.com/estudio/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBalanceRepo struct {
	rows []report.CuotaTotalsRow
}

func (s *stubBalanceRepo) CuotaTotalsByCliente(_ context.Context, _, _ *time.Time) ([]report.CuotaTotalsRow, error) {
	return s.rows, nil
}

func row(nombre string, total, cobrado int64) report.CuotaTotalsRow {
	return report.CuotaTotalsRow{
		ClienteID:  uuid.New(),
		Nombre:     nombre,
		TotalARS:   decimal.NewFromInt(total),
		CobradoARS: decimal.NewFromInt(cobrado),
	}
}

func TestClienteBalances(t *testing.T) {
	t.Run("derives saldo and percentage", func(t *testing.T) {
		repo := &stubBalanceRepo{rows: []report.CuotaTotalsRow{row("García", 1000, 400)}}
		svc := NewAggregationService(repo, zap.NewNop())

		rows, err := svc.ClienteBalances(context.Background(), report.BalanceQuery{})
		require.NoError(t, err)
		require.Len(t, rows, 1)

		assert.True(t, rows[0].SaldoARS.Equal(decimal.NewFromInt(600)))
		assert.Equal(t, "40.00", rows[0].PercPagado.StringFixed(2))
	})

	t.Run("zero total reports fully paid", func(t *testing.T) {
		repo := &stubBalanceRepo{rows: []report.CuotaTotalsRow{row("García", 0, 0)}}
		svc := NewAggregationService(repo, zap.NewNop())

		rows, err := svc.ClienteBalances(context.Background(), report.BalanceQuery{})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].PercPagado.Equal(decimal.NewFromInt(100)))
		assert.True(t, rows[0].SaldoARS.IsZero())
	})

	t.Run("overpaid cliente clamps saldo at zero", func(t *testing.T) {
		repo := &stubBalanceRepo{rows: []report.CuotaTotalsRow{row("García", 1000, 1200)}}
		svc := NewAggregationService(repo, zap.NewNop())

		rows, err := svc.ClienteBalances(context.Background(), report.BalanceQuery{})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].SaldoARS.IsZero())
		assert.Equal(t, "120.00", rows[0].PercPagado.StringFixed(2))
	})

	t.Run("only-with-saldo filter drops settled clientes", func(t *testing.T) {
		repo := &stubBalanceRepo{rows: []report.CuotaTotalsRow{
			row("García", 1000, 1000),
			row("Pérez", 1000, 400),
		}}
		svc := NewAggregationService(repo, zap.NewNop())

		rows, err := svc.ClienteBalances(context.Background(), report.BalanceQuery{OnlyWithSaldo: true})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Pérez", rows[0].Nombre)
	})

	t.Run("sorts by saldo descending", func(t *testing.T) {
		repo := &stubBalanceRepo{rows: []report.CuotaTotalsRow{
			row("Alfa", 1000, 900),  // saldo 100
			row("Beta", 1000, 200),  // saldo 800
			row("Gama", 1000, 500),  // saldo 500
		}}
		svc := NewAggregationService(repo, zap.NewNop())

		rows, err := svc.ClienteBalances(context.Background(), report.BalanceQuery{
			SortBy:     report.SortBySaldo,
			Descending: true,
		})
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Beta", rows[0].Nombre)
		assert.Equal(t, "Gama", rows[1].Nombre)
		assert.Equal(t, "Alfa", rows[2].Nombre)
	})

	t.Run("sorts by nombre with id tie-break", func(t *testing.T) {
		a := report.CuotaTotalsRow{
			ClienteID:  uuid.MustParse("00000000-0000-0000-0000-000000000002"),
			Nombre:     "García",
			TotalARS:   decimal.NewFromInt(500),
			CobradoARS: decimal.Zero,
		}
		b := report.CuotaTotalsRow{
			ClienteID:  uuid.MustParse("00000000-0000-0000-0000-000000000001"),
			Nombre:     "García",
			TotalARS:   decimal.NewFromInt(300),
			CobradoARS: decimal.Zero,
		}
		repo := &stubBalanceRepo{rows: []report.CuotaTotalsRow{a, b}}
		svc := NewAggregationService(repo, zap.NewNop())

		rows, err := svc.ClienteBalances(context.Background(), report.BalanceQuery{SortBy: report.SortByNombre})
		require.NoError(t, err)
		require.Len(t, rows, 2)

		// Equal names order by ascending id regardless of input order.
		assert.Equal(t, b.ClienteID, rows[0].ClienteID)
		assert.Equal(t, a.ClienteID, rows[1].ClienteID)
	})
}
