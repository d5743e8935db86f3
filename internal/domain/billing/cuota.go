package billing

import (
	"time"

	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CuotaStatus represents the payment status of an installment
type CuotaStatus string

const (
	CuotaStatusPending CuotaStatus = "PENDING" // no active allocations
	CuotaStatusPartial CuotaStatus = "PARTIAL" // 0 < applied < total
	CuotaStatusPaid    CuotaStatus = "PAID"    // applied covers total (within tolerance)
)

// IsValid checks if the status is a valid CuotaStatus
func (s CuotaStatus) IsValid() bool {
	switch s {
	case CuotaStatusPending, CuotaStatusPartial, CuotaStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of CuotaStatus
func (s CuotaStatus) String() string {
	return string(s)
}

// DeriveCuotaStatus computes the status of a cuota as a pure function of its
// applied and total amounts. A zero-total cuota is considered satisfied.
func DeriveCuotaStatus(applied, total decimal.Decimal) CuotaStatus {
	if total.LessThanOrEqual(Tolerance) {
		return CuotaStatusPaid
	}
	if applied.GreaterThanOrEqual(total.Sub(Tolerance)) {
		return CuotaStatusPaid
	}
	if applied.GreaterThan(decimal.Zero) {
		return CuotaStatusPartial
	}
	return CuotaStatusPending
}

// Cuota is an installment of a payment plan. Its total may be denominated
// directly in ARS or as a JUS unit count with the reference rate captured at
// the due date. Applied is a read optimization only: the allocation ledger is
// always the source of truth and Applied is re-derived after every mutation.
type Cuota struct {
	shared.BaseAggregateRoot
	PlanID      uuid.UUID       `json:"plan_id"`
	Numero      int             `json:"numero"`
	Vencimiento time.Time       `json:"vencimiento"`
	Montos      MonetaryFields  `json:"montos"`
	Applied     decimal.Decimal `json:"applied"`
	Status      CuotaStatus     `json:"status"`
}

// NewCuota creates a new cuota within a plan
func NewCuota(planID uuid.UUID, numero int, vencimiento time.Time, montos MonetaryFields) (*Cuota, error) {
	if planID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan ID cannot be empty")
	}
	if numero <= 0 {
		return nil, shared.NewDomainError("INVALID_NUMERO", "Cuota number must be positive")
	}

	c := &Cuota{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PlanID:            planID,
		Numero:            numero,
		Vencimiento:       vencimiento,
		Montos:            montos,
		Applied:           decimal.Zero,
		Status:            CuotaStatusPending,
	}

	// Reject negative monetary inputs at construction time rather than at
	// first resolution.
	if _, err := NewCurrencyResolver().Resolve(c); err != nil {
		return nil, err
	}

	return c, nil
}

// Monetary implements MonetaryRecord
func (c *Cuota) Monetary() MonetaryFields {
	return c.Montos
}

// RefreshApplied updates the cached applied amount from the ledger sum and
// recomputes the status. It returns true when the status changed.
func (c *Cuota) RefreshApplied(applied, total decimal.Decimal) bool {
	previous := c.Status
	c.Applied = applied
	c.Status = DeriveCuotaStatus(applied, total)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	if c.Status != previous {
		c.AddDomainEvent(NewCuotaStatusChangedEvent(c, previous))
		if c.Status == CuotaStatusPaid {
			c.AddDomainEvent(NewCuotaPaidEvent(c))
		}
		return true
	}
	return false
}

// IsOverdue returns true if the cuota is past its due date and not paid
func (c *Cuota) IsOverdue() bool {
	return c.Status != CuotaStatusPaid && time.Now().After(c.Vencimiento)
}
