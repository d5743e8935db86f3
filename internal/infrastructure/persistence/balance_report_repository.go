package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/estudio/backend/internal/domain/billing"
	"github.com/estudio/backend/internal/domain/report"
)

// GormBalanceReportRepository is the read side for the client balance
// report. It fetches cuota rows joined to their cliente in one query
// and normalizes JUS amounts through the currency resolver, so the
// report applies exactly the same resolution rules as reconciliation.
type GormBalanceReportRepository struct {
	db       *gorm.DB
	resolver *billing.CurrencyResolver
}

var _ report.BalanceReportRepository = (*GormBalanceReportRepository)(nil)

// NewGormBalanceReportRepository creates a new GormBalanceReportRepository
func NewGormBalanceReportRepository(db *gorm.DB) *GormBalanceReportRepository {
	return &GormBalanceReportRepository{
		db:       db,
		resolver: billing.NewCurrencyResolver(),
	}
}

type cuotaReportRow struct {
	ClienteID   uuid.UUID
	Nombre      string
	MontoARS    *decimal.Decimal
	CantidadJus *decimal.Decimal
	ValorJus    *decimal.Decimal
	Applied     decimal.Decimal
}

// Monetary implements billing.MonetaryRecord
func (r cuotaReportRow) Monetary() billing.MonetaryFields {
	return billing.MonetaryFields{
		MontoARS:    r.MontoARS,
		CantidadJus: r.CantidadJus,
		ValorJus:    r.ValorJus,
	}
}

// CuotaTotalsByCliente aggregates cuota totals and collected amounts
// per cliente. Desde and hasta filter on cuota vencimiento. The read
// takes no application locks and may slightly trail in-flight
// reconciliations.
func (r *GormBalanceReportRepository) CuotaTotalsByCliente(ctx context.Context, desde, hasta *time.Time) ([]report.CuotaTotalsRow, error) {
	query := r.db.WithContext(ctx).
		Table("cuotas").
		Select("clientes.id AS cliente_id, clientes.nombre, cuotas.monto_ars, cuotas.cantidad_jus, cuotas.valor_jus, cuotas.applied").
		Joins("JOIN planes_de_pago ON planes_de_pago.id = cuotas.plan_id").
		Joins("JOIN clientes ON clientes.id = planes_de_pago.cliente_id")

	if desde != nil {
		query = query.Where("cuotas.vencimiento >= ?", *desde)
	}
	if hasta != nil {
		query = query.Where("cuotas.vencimiento <= ?", *hasta)
	}

	var rows []cuotaReportRow
	if err := query.Order("clientes.nombre ASC, clientes.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]*report.CuotaTotalsRow)
	order := make([]uuid.UUID, 0)
	for _, row := range rows {
		total, err := r.resolver.Resolve(row)
		if err != nil {
			return nil, err
		}

		agg, ok := totals[row.ClienteID]
		if !ok {
			agg = &report.CuotaTotalsRow{
				ClienteID:  row.ClienteID,
				Nombre:     row.Nombre,
				TotalARS:   decimal.Zero,
				CobradoARS: decimal.Zero,
			}
			totals[row.ClienteID] = agg
			order = append(order, row.ClienteID)
		}
		agg.TotalARS = agg.TotalARS.Add(total)
		agg.CobradoARS = agg.CobradoARS.Add(row.Applied)
	}

	result := make([]report.CuotaTotalsRow, 0, len(order))
	for _, id := range order {
		result = append(result, *totals[id])
	}
	return result, nil
}
