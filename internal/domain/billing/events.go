package billing

import (
	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the billing bounded context
const (
	EventTypePlanCreated       = "billing.plan.created"
	EventTypeCuotaStatusChange = "billing.cuota.status_changed"
	EventTypeCuotaPaid         = "billing.cuota.paid"
	EventTypeIngresoReconciled = "billing.ingreso.reconciled"
	EventTypeIngresoAnulado    = "billing.ingreso.anulado"
	EventTypeAllocationVoided  = "billing.allocation.voided"
)

// PlanCreatedEvent is published when a payment plan is created
type PlanCreatedEvent struct {
	shared.BaseDomainEvent
	ExpedienteID uuid.UUID `json:"expediente_id"`
	ClienteID    uuid.UUID `json:"cliente_id"`
}

// NewPlanCreatedEvent creates a PlanCreatedEvent
func NewPlanCreatedEvent(p *PlanDePago) *PlanCreatedEvent {
	return &PlanCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlanCreated, "PlanDePago", p.ID),
		ExpedienteID:    p.ExpedienteID,
		ClienteID:       p.ClienteID,
	}
}

// CuotaStatusChangedEvent is published when a cuota transitions between
// PENDING, PARTIAL and PAID in either direction
type CuotaStatusChangedEvent struct {
	shared.BaseDomainEvent
	PlanID         uuid.UUID   `json:"plan_id"`
	PreviousStatus CuotaStatus `json:"previous_status"`
	NewStatus      CuotaStatus `json:"new_status"`
}

// NewCuotaStatusChangedEvent creates a CuotaStatusChangedEvent
func NewCuotaStatusChangedEvent(c *Cuota, previous CuotaStatus) *CuotaStatusChangedEvent {
	return &CuotaStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCuotaStatusChange, "Cuota", c.ID),
		PlanID:          c.PlanID,
		PreviousStatus:  previous,
		NewStatus:       c.Status,
	}
}

// CuotaPaidEvent is published when a cuota becomes fully paid
type CuotaPaidEvent struct {
	shared.BaseDomainEvent
	PlanID  uuid.UUID       `json:"plan_id"`
	Applied decimal.Decimal `json:"applied"`
}

// NewCuotaPaidEvent creates a CuotaPaidEvent
func NewCuotaPaidEvent(c *Cuota) *CuotaPaidEvent {
	return &CuotaPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCuotaPaid, "Cuota", c.ID),
		PlanID:          c.PlanID,
		Applied:         c.Applied,
	}
}

// IngresoReconciledEvent is published after a successful reconciliation
type IngresoReconciledEvent struct {
	shared.BaseDomainEvent
	ClienteID   uuid.UUID       `json:"cliente_id"`
	Allocated   decimal.Decimal `json:"allocated"`
	Remanente   decimal.Decimal `json:"remanente"`
	CuotasCount int             `json:"cuotas_count"`
}

// NewIngresoReconciledEvent creates an IngresoReconciledEvent
func NewIngresoReconciledEvent(i *Ingreso, allocated decimal.Decimal, cuotasCount int) *IngresoReconciledEvent {
	return &IngresoReconciledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIngresoReconciled, "Ingreso", i.ID),
		ClienteID:       i.ClienteID,
		Allocated:       allocated,
		Remanente:       i.Remanente,
		CuotasCount:     cuotasCount,
	}
}

// IngresoAnuladoEvent is published when an ingreso is voided
type IngresoAnuladoEvent struct {
	shared.BaseDomainEvent
	ClienteID uuid.UUID `json:"cliente_id"`
}

// NewIngresoAnuladoEvent creates an IngresoAnuladoEvent
func NewIngresoAnuladoEvent(i *Ingreso) *IngresoAnuladoEvent {
	return &IngresoAnuladoEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIngresoAnulado, "Ingreso", i.ID),
		ClienteID:       i.ClienteID,
	}
}

// AllocationVoidedEvent is published when an allocation is soft-deleted
type AllocationVoidedEvent struct {
	shared.BaseDomainEvent
	IngresoID uuid.UUID       `json:"ingreso_id"`
	CuotaID   uuid.UUID       `json:"cuota_id"`
	Monto     decimal.Decimal `json:"monto"`
	Reason    string          `json:"reason"`
}

// NewAllocationVoidedEvent creates an AllocationVoidedEvent
func NewAllocationVoidedEvent(a *Allocation) *AllocationVoidedEvent {
	return &AllocationVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAllocationVoided, "Allocation", a.ID),
		IngresoID:       a.IngresoID,
		CuotaID:         a.CuotaID,
		Monto:           a.Monto,
		Reason:          a.VoidReason,
	}
}
