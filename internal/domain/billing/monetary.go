package billing

import (
	"github.com/shopspring/decimal"
)

// Tolerance is the rounding tolerance for allocation sum checks. Amounts are
// rounded half-up to two decimals at every multiplication point, so any drift
// between independently rounded figures stays within one cent.
var Tolerance = decimal.NewFromFloat(0.01)

// MonetaryFields is the dual-currency representation shared by every billable
// record. A record carries either a direct ARS amount, a (JUS units, reference
// rate) pair, or nothing; Saldo is an optional precomputed outstanding balance
// that, when present, takes precedence over the derived one.
type MonetaryFields struct {
	MontoARS    *decimal.Decimal `json:"monto_ars,omitempty"`
	CantidadJus *decimal.Decimal `json:"cantidad_jus,omitempty"`
	ValorJus    *decimal.Decimal `json:"valor_jus,omitempty"`
	Saldo       *decimal.Decimal `json:"saldo,omitempty"`
}

// MonetaryRecord is satisfied by any billable line item (cuotas, gastos,
// honorarios, ingresos) whose monetary value must be normalized to ARS.
type MonetaryRecord interface {
	Monetary() MonetaryFields
}

// CurrencyResolver normalizes heterogeneous monetary fields into a single ARS
// amount. Resolution is pure and idempotent: the same inputs always produce a
// bit-identical decimal, which reconciliation re-runs depend on.
type CurrencyResolver struct{}

// NewCurrencyResolver creates a CurrencyResolver
func NewCurrencyResolver() *CurrencyResolver {
	return &CurrencyResolver{}
}

// Resolve returns the ARS amount for a record. Precedence:
//  1. explicit ARS amount, if present and positive
//  2. JUS units x reference rate, if both present and positive,
//     rounded half-up to two decimals at the point of multiplication
//  3. zero
//
// Any negative input fails with InvalidAmountError.
func (r *CurrencyResolver) Resolve(record MonetaryRecord) (decimal.Decimal, error) {
	f := record.Monetary()

	if f.MontoARS != nil {
		if f.MontoARS.IsNegative() {
			return decimal.Zero, &InvalidAmountError{Field: "monto_ars", Value: *f.MontoARS}
		}
		if f.MontoARS.IsPositive() {
			return f.MontoARS.Round(2), nil
		}
	}

	if f.CantidadJus != nil && f.CantidadJus.IsNegative() {
		return decimal.Zero, &InvalidAmountError{Field: "cantidad_jus", Value: *f.CantidadJus}
	}
	if f.ValorJus != nil && f.ValorJus.IsNegative() {
		return decimal.Zero, &InvalidAmountError{Field: "valor_jus", Value: *f.ValorJus}
	}
	if f.CantidadJus != nil && f.ValorJus != nil &&
		f.CantidadJus.IsPositive() && f.ValorJus.IsPositive() {
		return f.CantidadJus.Mul(*f.ValorJus).Round(2), nil
	}

	return decimal.Zero, nil
}

// ResolveSaldo returns the outstanding balance for a record. An explicit saldo
// field wins; otherwise the saldo is derived as max(total - applied, 0),
// rounded to two decimals.
func (r *CurrencyResolver) ResolveSaldo(record MonetaryRecord, applied decimal.Decimal) (decimal.Decimal, error) {
	f := record.Monetary()
	if f.Saldo != nil {
		if f.Saldo.IsNegative() {
			return decimal.Zero, &InvalidAmountError{Field: "saldo", Value: *f.Saldo}
		}
		return f.Saldo.Round(2), nil
	}

	total, err := r.Resolve(record)
	if err != nil {
		return decimal.Zero, err
	}
	saldo := total.Sub(applied).Round(2)
	if saldo.IsNegative() {
		return decimal.Zero, nil
	}
	return saldo, nil
}
