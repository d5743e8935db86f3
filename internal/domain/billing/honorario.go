package billing

import (
	"time"

	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Honorario is a professional fee agreed for an expediente, typically
// denominated in JUS so it tracks the indexed unit rather than a fixed peso
// amount.
type Honorario struct {
	shared.BaseAggregateRoot
	ExpedienteID uuid.UUID      `json:"expediente_id"`
	ClienteID    uuid.UUID      `json:"cliente_id"`
	Fecha        time.Time      `json:"fecha"`
	Descripcion  string         `json:"descripcion"`
	Montos       MonetaryFields `json:"montos"`
}

// NewHonorario creates a new honorario
func NewHonorario(expedienteID, clienteID uuid.UUID, fecha time.Time, descripcion string, montos MonetaryFields) (*Honorario, error) {
	if expedienteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EXPEDIENTE", "Expediente ID cannot be empty")
	}
	if clienteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENTE", "Cliente ID cannot be empty")
	}

	h := &Honorario{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExpedienteID:      expedienteID,
		ClienteID:         clienteID,
		Fecha:             fecha,
		Descripcion:       descripcion,
		Montos:            montos,
	}

	if _, err := NewCurrencyResolver().Resolve(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Monetary implements MonetaryRecord
func (h *Honorario) Monetary() MonetaryFields {
	return h.Montos
}
