package billing

import (
	"time"

	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Gasto is a reimbursable expense charged to an expediente. It satisfies the
// same monetary trait as cuotas, so reports resolve it the same way.
type Gasto struct {
	shared.BaseAggregateRoot
	ExpedienteID uuid.UUID      `json:"expediente_id"`
	ClienteID    uuid.UUID      `json:"cliente_id"`
	Fecha        time.Time      `json:"fecha"`
	Descripcion  string         `json:"descripcion"`
	Montos       MonetaryFields `json:"montos"`
}

// NewGasto creates a new gasto
func NewGasto(expedienteID, clienteID uuid.UUID, fecha time.Time, descripcion string, montos MonetaryFields) (*Gasto, error) {
	if expedienteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EXPEDIENTE", "Expediente ID cannot be empty")
	}
	if clienteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENTE", "Cliente ID cannot be empty")
	}

	g := &Gasto{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExpedienteID:      expedienteID,
		ClienteID:         clienteID,
		Fecha:             fecha,
		Descripcion:       descripcion,
		Montos:            montos,
	}

	if _, err := NewCurrencyResolver().Resolve(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Monetary implements MonetaryRecord
func (g *Gasto) Monetary() MonetaryFields {
	return g.Montos
}
