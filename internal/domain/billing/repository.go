package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CuotaRepository provides access to cuotas
type CuotaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Cuota, error)
	// FindByIDs returns the cuotas for the given ids. A missing id is an
	// error: callers depend on every selected cuota existing.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Cuota, error)
	FindByPlan(ctx context.Context, planID uuid.UUID) ([]Cuota, error)
	Save(ctx context.Context, cuota *Cuota) error
}

// PlanDePagoRepository provides access to payment plans
type PlanDePagoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PlanDePago, error)
	FindByExpediente(ctx context.Context, expedienteID uuid.UUID) ([]PlanDePago, error)
	FindByCliente(ctx context.Context, clienteID uuid.UUID) ([]PlanDePago, error)
	Save(ctx context.Context, plan *PlanDePago) error
}

// IngresoFilter narrows ingreso queries
type IngresoFilter struct {
	ClienteID    *uuid.UUID
	ExpedienteID *uuid.UUID
	FechaDesde   *time.Time
	FechaHasta   *time.Time
	Page         int
	PageSize     int
}

// IngresoRepository provides access to ingresos
type IngresoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Ingreso, error)
	FindAll(ctx context.Context, filter IngresoFilter) ([]Ingreso, error)
	Count(ctx context.Context, filter IngresoFilter) (int64, error)
	Save(ctx context.Context, ingreso *Ingreso) error
}

// AllocationRepository is the persistence side of the allocation ledger.
// Allocations are append-only: rows are inserted and updated to VOIDED but
// never deleted.
type AllocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Allocation, error)
	// FindActiveByCuota returns active allocations ordered by creation time
	// ascending. The order is for audit and inspection, not an application
	// order guarantee.
	FindActiveByCuota(ctx context.Context, cuotaID uuid.UUID) ([]Allocation, error)
	FindActiveByIngreso(ctx context.Context, ingresoID uuid.UUID) ([]Allocation, error)
	FindByIngreso(ctx context.Context, ingresoID uuid.UUID) ([]Allocation, error)
	SumActiveByCuota(ctx context.Context, cuotaID uuid.UUID) (decimal.Decimal, error)
	SumActiveByCuotaExcludingIngreso(ctx context.Context, cuotaID, ingresoID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, allocation *Allocation) error
}

// GastoRepository provides access to gastos
type GastoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Gasto, error)
	FindByExpediente(ctx context.Context, expedienteID uuid.UUID) ([]Gasto, error)
	Save(ctx context.Context, gasto *Gasto) error
}

// HonorarioRepository provides access to honorarios
type HonorarioRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Honorario, error)
	FindByExpediente(ctx context.Context, expedienteID uuid.UUID) ([]Honorario, error)
	Save(ctx context.Context, honorario *Honorario) error
}
