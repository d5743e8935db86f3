package billing

import (
	"time"

	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingreso is an incoming payment from a cliente, optionally tied to an
// expediente. Its gross amount may be stated in ARS or as JUS units at a
// reference rate. Remanente is the portion of the gross amount left after
// allocation; it is never silently discarded.
type Ingreso struct {
	shared.BaseAggregateRoot
	ClienteID    uuid.UUID       `json:"cliente_id"`
	ExpedienteID *uuid.UUID      `json:"expediente_id,omitempty"`
	Fecha        time.Time       `json:"fecha"`
	Concepto     string          `json:"concepto"`
	Montos       MonetaryFields  `json:"montos"`
	Remanente    decimal.Decimal `json:"remanente"`
	Anulado      bool            `json:"anulado"`
	AnuladoAt    *time.Time      `json:"anulado_at,omitempty"`
}

// NewIngreso creates a new ingreso
func NewIngreso(clienteID uuid.UUID, expedienteID *uuid.UUID, fecha time.Time, concepto string, montos MonetaryFields) (*Ingreso, error) {
	if clienteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENTE", "Cliente ID cannot be empty")
	}

	ing := &Ingreso{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClienteID:         clienteID,
		ExpedienteID:      expedienteID,
		Fecha:             fecha,
		Concepto:          concepto,
		Montos:            montos,
		Remanente:         decimal.Zero,
	}

	// Nothing is allocated yet, so the whole resolved amount remains.
	total, err := NewCurrencyResolver().Resolve(ing)
	if err != nil {
		return nil, err
	}
	ing.Remanente = total

	return ing, nil
}

// Monetary implements MonetaryRecord
func (i *Ingreso) Monetary() MonetaryFields {
	return i.Montos
}

// UpdateMontos replaces the monetary fields after validating them
func (i *Ingreso) UpdateMontos(montos MonetaryFields) error {
	prev := i.Montos
	i.Montos = montos
	if _, err := NewCurrencyResolver().Resolve(i); err != nil {
		i.Montos = prev
		return err
	}
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// SetRemanente records the unapplied remainder after reconciliation
func (i *Ingreso) SetRemanente(remanente decimal.Decimal) {
	i.Remanente = remanente
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// Anular marks the ingreso as voided. Its allocations must already have been
// voided through the reconciliation engine.
func (i *Ingreso) Anular() error {
	if i.Anulado {
		return shared.ErrInvalidState
	}
	now := time.Now()
	i.Anulado = true
	i.AnuladoAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()
	i.AddDomainEvent(NewIngresoAnuladoEvent(i))
	return nil
}
