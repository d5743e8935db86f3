package billing

import (
	"time"

	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationStatus represents the lifecycle state of an allocation
type AllocationStatus string

const (
	AllocationStatusActive AllocationStatus = "ACTIVE"
	// AllocationStatusVoided is terminal and immutable. Voided allocations are
	// kept forever for audit; they are never physically deleted.
	AllocationStatusVoided AllocationStatus = "VOIDED"
)

// IsValid checks if the status is a valid AllocationStatus
func (s AllocationStatus) IsValid() bool {
	return s == AllocationStatusActive || s == AllocationStatusVoided
}

// Allocation links an ingreso to a cuota with the ARS amount applied.
type Allocation struct {
	shared.BaseEntity
	IngresoID  uuid.UUID        `json:"ingreso_id"`
	CuotaID    uuid.UUID        `json:"cuota_id"`
	Monto      decimal.Decimal  `json:"monto"`
	Status     AllocationStatus `json:"status"`
	VoidedAt   *time.Time       `json:"voided_at,omitempty"`
	VoidReason string           `json:"void_reason,omitempty"`
}

// NewAllocation creates an active allocation of monto ARS from an ingreso to
// a cuota.
func NewAllocation(ingresoID, cuotaID uuid.UUID, monto decimal.Decimal) (*Allocation, error) {
	if ingresoID == uuid.Nil {
		return nil, &IngresoNotFoundError{IngresoID: ingresoID}
	}
	if cuotaID == uuid.Nil {
		return nil, &CuotaNotFoundError{CuotaID: cuotaID}
	}
	if monto.IsNegative() {
		return nil, &InvalidAmountError{Field: "monto", Value: monto}
	}

	return &Allocation{
		BaseEntity: shared.NewBaseEntity(),
		IngresoID:  ingresoID,
		CuotaID:    cuotaID,
		Monto:      monto.Round(2),
		Status:     AllocationStatusActive,
	}, nil
}

// IsActive returns true while the allocation counts toward the cuota
func (a *Allocation) IsActive() bool {
	return a.Status == AllocationStatusActive
}

// Void soft-deletes the allocation. Voiding an already-voided allocation is a
// no-op that succeeds: the first reason and timestamp are preserved.
func (a *Allocation) Void(reason string) {
	if a.Status == AllocationStatusVoided {
		return
	}
	now := time.Now()
	a.Status = AllocationStatusVoided
	a.VoidedAt = &now
	a.VoidReason = reason
	a.Touch()
}
