package billing

import (
	"context"
	"errors"

	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationLedger is the bookkeeping service for payment-to-cuota links.
// It is the single writer of allocations: entries are created and voided here
// and nowhere else, and voided entries are kept forever for audit.
//
// A ledger instance is bound to the repositories it was constructed with, so
// one created inside a transaction scope participates in that transaction.
type AllocationLedger struct {
	allocations AllocationRepository
	cuotas      CuotaRepository
	resolver    *CurrencyResolver
}

// NewAllocationLedger creates a ledger over the given repositories
func NewAllocationLedger(allocations AllocationRepository, cuotas CuotaRepository) *AllocationLedger {
	return &AllocationLedger{
		allocations: allocations,
		cuotas:      cuotas,
		resolver:    NewCurrencyResolver(),
	}
}

// ListActiveFor returns the active allocations for a cuota ordered by
// creation time ascending.
func (l *AllocationLedger) ListActiveFor(ctx context.Context, cuotaID uuid.UUID) ([]Allocation, error) {
	return l.allocations.FindActiveByCuota(ctx, cuotaID)
}

// TotalAppliedFor returns the sum of active allocation amounts for a cuota.
// This sum is the source of truth for the cuota's applied amount; any cached
// field on the cuota is derived from it.
func (l *AllocationLedger) TotalAppliedFor(ctx context.Context, cuotaID uuid.UUID) (decimal.Decimal, error) {
	return l.allocations.SumActiveByCuota(ctx, cuotaID)
}

// TotalAppliedExcluding returns the sum of active allocations for a cuota
// that come from ingresos other than the given one. Reconciliation uses this
// to compute how much of a cuota is funded by third parties.
func (l *AllocationLedger) TotalAppliedExcluding(ctx context.Context, cuotaID, ingresoID uuid.UUID) (decimal.Decimal, error) {
	return l.allocations.SumActiveByCuotaExcludingIngreso(ctx, cuotaID, ingresoID)
}

// Apply creates an active allocation of monto from an ingreso to a cuota.
// It fails with OverAllocationError if the new entry would push the sum of
// active allocations above the cuota's resolved total plus the rounding
// tolerance.
func (l *AllocationLedger) Apply(ctx context.Context, ingresoID, cuotaID uuid.UUID, monto decimal.Decimal) (*Allocation, error) {
	if monto.IsNegative() {
		return nil, &InvalidAmountError{Field: "monto", Value: monto}
	}

	cuota, err := l.cuotas.FindByID(ctx, cuotaID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, &CuotaNotFoundError{CuotaID: cuotaID}
		}
		return nil, err
	}
	if cuota == nil {
		return nil, &CuotaNotFoundError{CuotaID: cuotaID}
	}

	total, err := l.resolver.Resolve(cuota)
	if err != nil {
		return nil, err
	}
	applied, err := l.allocations.SumActiveByCuota(ctx, cuotaID)
	if err != nil {
		return nil, err
	}

	if applied.Add(monto).GreaterThan(total.Add(Tolerance)) {
		return nil, &OverAllocationError{
			CuotaID:   cuotaID,
			Total:     total,
			Applied:   applied,
			Attempted: monto,
		}
	}

	allocation, err := NewAllocation(ingresoID, cuotaID, monto)
	if err != nil {
		return nil, err
	}
	if err := l.allocations.Save(ctx, allocation); err != nil {
		return nil, err
	}
	return allocation, nil
}

// Void soft-deletes an allocation. Voiding an already-voided allocation
// succeeds without error or state change.
func (l *AllocationLedger) Void(ctx context.Context, allocationID uuid.UUID, reason string) (*Allocation, error) {
	allocation, err := l.allocations.FindByID(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	if allocation == nil {
		return nil, shared.ErrNotFound
	}
	if !allocation.IsActive() {
		return allocation, nil
	}

	allocation.Void(reason)
	if err := l.allocations.Save(ctx, allocation); err != nil {
		return nil, err
	}
	return allocation, nil
}
