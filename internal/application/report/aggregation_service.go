package report

import (
	"context"
	"sort"
	"strings"

	"github.com/estudio/backend/internal/domain/report"
	"github.com/estudio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

// AggregationService produces the per-cliente balance report the front
// office's saldo spreadsheet consumes. Reads take no application locks: a
// report may trail an in-flight reconciliation by an instant, which is
// acceptable for an aggregate view.
type AggregationService struct {
	balances report.BalanceReportRepository
	logger   *zap.Logger
}

// NewAggregationService creates an AggregationService
func NewAggregationService(balances report.BalanceReportRepository, logger *zap.Logger) *AggregationService {
	return &AggregationService{
		balances: balances,
		logger:   logger,
	}
}

// ClienteBalances returns one row per cliente with cuota totals, collected
// amounts and derived saldo and percentage, filtered and sorted per the query.
func (s *AggregationService) ClienteBalances(ctx context.Context, query report.BalanceQuery) ([]report.ClienteBalanceRow, error) {
	raw, err := s.balances.CuotaTotalsByCliente(ctx, query.Desde, query.Hasta)
	if err != nil {
		return nil, err
	}

	rows := make([]report.ClienteBalanceRow, 0, len(raw))
	for _, r := range raw {
		// Totals and collected amounts are already settled in ARS, so the
		// saldo derivation goes through the Money value object.
		total := valueobject.NewMoneyARS(r.TotalARS)
		cobrado := valueobject.NewMoneyARS(r.CobradoARS)

		saldo := total.MustSubtract(cobrado).Round(2)
		if saldo.IsNegative() {
			saldo = valueobject.ZeroARS()
		}

		// A cliente with nothing billed owes nothing: fully paid.
		perc := hundred
		if total.IsPositive() {
			perc = cobrado.Amount().Div(total.Amount()).Mul(hundred).Round(2)
		}

		if query.OnlyWithSaldo && !saldo.IsPositive() {
			continue
		}

		rows = append(rows, report.ClienteBalanceRow{
			ClienteID:  r.ClienteID,
			Nombre:     r.Nombre,
			TotalARS:   total.Round(2).Amount(),
			CobradoARS: cobrado.Round(2).Amount(),
			SaldoARS:   saldo.Amount(),
			PercPagado: perc,
		})
	}

	sortRows(rows, query)

	s.logger.Debug("cliente balance report built",
		zap.Int("rows", len(rows)),
		zap.Bool("only_with_saldo", query.OnlyWithSaldo))
	return rows, nil
}

// sortRows orders the report; ties always break by ascending cliente id so
// the output is stable across runs.
func sortRows(rows []report.ClienteBalanceRow, query report.BalanceQuery) {
	less := func(a, b report.ClienteBalanceRow) int {
		switch query.SortBy {
		case report.SortBySaldo:
			return a.SaldoARS.Cmp(b.SaldoARS)
		default:
			return strings.Compare(a.Nombre, b.Nombre)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		c := less(rows[i], rows[j])
		if query.Descending {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return strings.Compare(rows[i].ClienteID.String(), rows[j].ClienteID.String()) < 0
	})
}
