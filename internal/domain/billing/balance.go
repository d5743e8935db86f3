package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is the derived financial position of a billable record
type Balance struct {
	Total       decimal.Decimal `json:"total"`
	Applied     decimal.Decimal `json:"applied"`
	Saldo       decimal.Decimal `json:"saldo"`
	PercentPaid decimal.Decimal `json:"percent_paid"`
}

// BalanceCalculator derives outstanding balances from resolved amounts and
// the allocation ledger. Applied is always recomputed from the ledger, never
// trusted from a cached field, so concurrent edits cannot cause drift.
type BalanceCalculator struct {
	ledger   *AllocationLedger
	resolver *CurrencyResolver
}

// NewBalanceCalculator creates a BalanceCalculator over the given ledger
func NewBalanceCalculator(ledger *AllocationLedger) *BalanceCalculator {
	return &BalanceCalculator{
		ledger:   ledger,
		resolver: NewCurrencyResolver(),
	}
}

// BalanceOfCuota computes the balance for a cuota from the ledger
func (b *BalanceCalculator) BalanceOfCuota(ctx context.Context, cuota *Cuota) (*Balance, error) {
	if cuota == nil {
		return nil, &CuotaNotFoundError{CuotaID: uuid.Nil}
	}

	total, err := b.resolver.Resolve(cuota)
	if err != nil {
		return nil, err
	}
	applied, err := b.ledger.TotalAppliedFor(ctx, cuota.ID)
	if err != nil {
		return nil, err
	}

	return b.balance(cuota, total, applied)
}

// BalanceOf computes the balance for any monetary record given its applied
// amount. Records that are not cuotas have no ledger entries, so the caller
// supplies applied (usually zero).
func (b *BalanceCalculator) BalanceOf(record MonetaryRecord, applied decimal.Decimal) (*Balance, error) {
	total, err := b.resolver.Resolve(record)
	if err != nil {
		return nil, err
	}
	return b.balance(record, total, applied)
}

func (b *BalanceCalculator) balance(record MonetaryRecord, total, applied decimal.Decimal) (*Balance, error) {
	saldo, err := b.resolver.ResolveSaldo(record, applied)
	if err != nil {
		return nil, err
	}

	// A zero-total record is already satisfied, not a division error.
	percent := decimal.NewFromInt(100)
	if total.GreaterThan(decimal.Zero) {
		percent = applied.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &Balance{
		Total:       total,
		Applied:     applied,
		Saldo:       saldo,
		PercentPaid: percent,
	}, nil
}

// RefreshCuota recomputes a cuota's cached applied amount and status from the
// ledger and persists it when anything changed. It returns the new balance
// and whether the status transitioned.
func (b *BalanceCalculator) RefreshCuota(ctx context.Context, cuota *Cuota, cuotas CuotaRepository) (*Balance, bool, error) {
	balance, err := b.BalanceOfCuota(ctx, cuota)
	if err != nil {
		return nil, false, err
	}

	changed := cuota.RefreshApplied(balance.Applied, balance.Total)
	if err := cuotas.Save(ctx, cuota); err != nil {
		return nil, false, err
	}
	return balance, changed, nil
}
