package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/estudio/backend/internal/domain/billing"
)

// MonetaryColumns embeds the dual-currency fields shared by every
// billable model. All four columns are nullable: absence is meaningful
// to the currency resolver.
type MonetaryColumns struct {
	MontoARS    *decimal.Decimal `gorm:"type:decimal(18,2)"`
	CantidadJus *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ValorJus    *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Saldo       *decimal.Decimal `gorm:"type:decimal(18,2)"`
}

// ToDomain converts the columns to domain MonetaryFields
func (m MonetaryColumns) ToDomain() billing.MonetaryFields {
	return billing.MonetaryFields{
		MontoARS:    m.MontoARS,
		CantidadJus: m.CantidadJus,
		ValorJus:    m.ValorJus,
		Saldo:       m.Saldo,
	}
}

// MonetaryColumnsFromDomain builds the columns from domain MonetaryFields
func MonetaryColumnsFromDomain(f billing.MonetaryFields) MonetaryColumns {
	return MonetaryColumns{
		MontoARS:    f.MontoARS,
		CantidadJus: f.CantidadJus,
		ValorJus:    f.ValorJus,
		Saldo:       f.Saldo,
	}
}

// PlanDePagoModel is the persistence model for the PlanDePago aggregate.
// Cuotas are persisted separately through their own model.
type PlanDePagoModel struct {
	AggregateModel
	ExpedienteID uuid.UUID `gorm:"type:uuid;not null;index"`
	ClienteID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Descripcion  string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PlanDePagoModel) TableName() string {
	return "planes_de_pago"
}

// ToDomain converts the persistence model to a domain PlanDePago
func (m *PlanDePagoModel) ToDomain() *billing.PlanDePago {
	return &billing.PlanDePago{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ExpedienteID:      m.ExpedienteID,
		ClienteID:         m.ClienteID,
		Descripcion:       m.Descripcion,
		Cuotas:            []billing.Cuota{},
	}
}

// PlanDePagoModelFromDomain creates a persistence model from a domain PlanDePago
func PlanDePagoModelFromDomain(p *billing.PlanDePago) *PlanDePagoModel {
	m := &PlanDePagoModel{}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.ExpedienteID = p.ExpedienteID
	m.ClienteID = p.ClienteID
	m.Descripcion = p.Descripcion
	return m
}

// CuotaModel is the persistence model for the Cuota aggregate. Applied
// caches the ledger sum for read paths; the allocations table remains
// the source of truth.
type CuotaModel struct {
	AggregateModel
	MonetaryColumns
	PlanID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	Numero      int                `gorm:"not null"`
	Vencimiento time.Time          `gorm:"not null;index"`
	Applied     decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	Status      billing.CuotaStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
}

// TableName returns the table name for GORM
func (CuotaModel) TableName() string {
	return "cuotas"
}

// ToDomain converts the persistence model to a domain Cuota
func (m *CuotaModel) ToDomain() *billing.Cuota {
	return &billing.Cuota{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		PlanID:            m.PlanID,
		Numero:            m.Numero,
		Vencimiento:       m.Vencimiento,
		Montos:            m.MonetaryColumns.ToDomain(),
		Applied:           m.Applied,
		Status:            m.Status,
	}
}

// CuotaModelFromDomain creates a persistence model from a domain Cuota
func CuotaModelFromDomain(c *billing.Cuota) *CuotaModel {
	m := &CuotaModel{}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.MonetaryColumns = MonetaryColumnsFromDomain(c.Montos)
	m.PlanID = c.PlanID
	m.Numero = c.Numero
	m.Vencimiento = c.Vencimiento
	m.Applied = c.Applied
	m.Status = c.Status
	return m
}

// IngresoModel is the persistence model for the Ingreso aggregate.
type IngresoModel struct {
	AggregateModel
	MonetaryColumns
	ClienteID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ExpedienteID *uuid.UUID      `gorm:"type:uuid;index"`
	Fecha        time.Time       `gorm:"not null;index"`
	Concepto     string          `gorm:"type:text"`
	Remanente    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Anulado      bool            `gorm:"not null;default:false;index"`
	AnuladoAt    *time.Time
}

// TableName returns the table name for GORM
func (IngresoModel) TableName() string {
	return "ingresos"
}

// ToDomain converts the persistence model to a domain Ingreso
func (m *IngresoModel) ToDomain() *billing.Ingreso {
	return &billing.Ingreso{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ClienteID:         m.ClienteID,
		ExpedienteID:      m.ExpedienteID,
		Fecha:             m.Fecha,
		Concepto:          m.Concepto,
		Montos:            m.MonetaryColumns.ToDomain(),
		Remanente:         m.Remanente,
		Anulado:           m.Anulado,
		AnuladoAt:         m.AnuladoAt,
	}
}

// IngresoModelFromDomain creates a persistence model from a domain Ingreso
func IngresoModelFromDomain(i *billing.Ingreso) *IngresoModel {
	m := &IngresoModel{}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.MonetaryColumns = MonetaryColumnsFromDomain(i.Montos)
	m.ClienteID = i.ClienteID
	m.ExpedienteID = i.ExpedienteID
	m.Fecha = i.Fecha
	m.Concepto = i.Concepto
	m.Remanente = i.Remanente
	m.Anulado = i.Anulado
	m.AnuladoAt = i.AnuladoAt
	return m
}

// AllocationModel is the persistence model for ledger allocations.
// Rows are inserted and updated to VOIDED but never deleted.
type AllocationModel struct {
	BaseModel
	IngresoID  uuid.UUID                `gorm:"type:uuid;not null;index"`
	CuotaID    uuid.UUID                `gorm:"type:uuid;not null;index"`
	Monto      decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Status     billing.AllocationStatus `gorm:"type:varchar(10);not null;default:'ACTIVE';index"`
	VoidedAt   *time.Time
	VoidReason string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (AllocationModel) TableName() string {
	return "allocations"
}

// ToDomain converts the persistence model to a domain Allocation
func (m *AllocationModel) ToDomain() *billing.Allocation {
	return &billing.Allocation{
		BaseEntity: m.BaseModel.ToDomain(),
		IngresoID:  m.IngresoID,
		CuotaID:    m.CuotaID,
		Monto:      m.Monto,
		Status:     m.Status,
		VoidedAt:   m.VoidedAt,
		VoidReason: m.VoidReason,
	}
}

// AllocationModelFromDomain creates a persistence model from a domain Allocation
func AllocationModelFromDomain(a *billing.Allocation) *AllocationModel {
	m := &AllocationModel{}
	m.FromDomainBaseEntity(a.BaseEntity)
	m.IngresoID = a.IngresoID
	m.CuotaID = a.CuotaID
	m.Monto = a.Monto
	m.Status = a.Status
	m.VoidedAt = a.VoidedAt
	m.VoidReason = a.VoidReason
	return m
}

// GastoModel is the persistence model for expediente gastos.
type GastoModel struct {
	AggregateModel
	MonetaryColumns
	ExpedienteID uuid.UUID `gorm:"type:uuid;not null;index"`
	ClienteID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Fecha        time.Time `gorm:"not null;index"`
	Descripcion  string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (GastoModel) TableName() string {
	return "gastos"
}

// ToDomain converts the persistence model to a domain Gasto
func (m *GastoModel) ToDomain() *billing.Gasto {
	return &billing.Gasto{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ExpedienteID:      m.ExpedienteID,
		ClienteID:         m.ClienteID,
		Fecha:             m.Fecha,
		Descripcion:       m.Descripcion,
		Montos:            m.MonetaryColumns.ToDomain(),
	}
}

// GastoModelFromDomain creates a persistence model from a domain Gasto
func GastoModelFromDomain(g *billing.Gasto) *GastoModel {
	m := &GastoModel{}
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	m.MonetaryColumns = MonetaryColumnsFromDomain(g.Montos)
	m.ExpedienteID = g.ExpedienteID
	m.ClienteID = g.ClienteID
	m.Fecha = g.Fecha
	m.Descripcion = g.Descripcion
	return m
}

// HonorarioModel is the persistence model for expediente honorarios.
type HonorarioModel struct {
	AggregateModel
	MonetaryColumns
	ExpedienteID uuid.UUID `gorm:"type:uuid;not null;index"`
	ClienteID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Fecha        time.Time `gorm:"not null;index"`
	Descripcion  string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (HonorarioModel) TableName() string {
	return "honorarios"
}

// ToDomain converts the persistence model to a domain Honorario
func (m *HonorarioModel) ToDomain() *billing.Honorario {
	return &billing.Honorario{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ExpedienteID:      m.ExpedienteID,
		ClienteID:         m.ClienteID,
		Fecha:             m.Fecha,
		Descripcion:       m.Descripcion,
		Montos:            m.MonetaryColumns.ToDomain(),
	}
}

// HonorarioModelFromDomain creates a persistence model from a domain Honorario
func HonorarioModelFromDomain(h *billing.Honorario) *HonorarioModel {
	m := &HonorarioModel{}
	m.FromDomainAggregateRoot(h.BaseAggregateRoot)
	m.MonetaryColumns = MonetaryColumnsFromDomain(h.Montos)
	m.ExpedienteID = h.ExpedienteID
	m.ClienteID = h.ClienteID
	m.Fecha = h.Fecha
	m.Descripcion = h.Descripcion
	return m
}
