package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClienteBalanceRow is the external contract row consumed by the front
// office's saldo spreadsheet. Field names and shape are frozen: downstream
// tooling parses this JSON verbatim.
type ClienteBalanceRow struct {
	ClienteID  uuid.UUID       `json:"clienteId"`
	Nombre     string          `json:"nombre"`
	TotalARS   decimal.Decimal `json:"totalARS"`
	CobradoARS decimal.Decimal `json:"cobradoARS"`
	SaldoARS   decimal.Decimal `json:"saldoARS"`
	PercPagado decimal.Decimal `json:"percPagado"`
}

// SortField selects the ordering column for balance reports
type SortField string

const (
	SortByNombre SortField = "nombre"
	SortBySaldo  SortField = "saldo"
)

// IsValid checks if the field is a supported sort column
func (s SortField) IsValid() bool {
	return s == SortByNombre || s == SortBySaldo
}

// BalanceQuery filters and orders a client balance report
type BalanceQuery struct {
	Desde         *time.Time
	Hasta         *time.Time
	OnlyWithSaldo bool // drop rows whose saldo is zero or negative
	SortBy        SortField
	Descending    bool
}

// CuotaTotalsRow is the raw per-cliente aggregate the persistence layer
// produces for the balance report before percentages are derived.
type CuotaTotalsRow struct {
	ClienteID  uuid.UUID
	Nombre     string
	TotalARS   decimal.Decimal
	CobradoARS decimal.Decimal
}

// BalanceReportRepository is the read side for client balance aggregation.
// Implementations aggregate in SQL; reads take no application locks and may
// trail in-flight reconciliations slightly.
type BalanceReportRepository interface {
	CuotaTotalsByCliente(ctx context.Context, desde, hasta *time.Time) ([]CuotaTotalsRow, error)
}
