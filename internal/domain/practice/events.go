package practice

import (
	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the practice bounded context
const (
	EventTypeClienteCreated          = "practice.cliente.created"
	EventTypeExpedienteCreated       = "practice.expediente.created"
	EventTypeExpedienteEstadoChanged = "practice.expediente.estado_changed"
)

// ClienteCreatedEvent is published when a cliente is registered
type ClienteCreatedEvent struct {
	shared.BaseDomainEvent
	Nombre string `json:"nombre"`
}

// NewClienteCreatedEvent creates a ClienteCreatedEvent
func NewClienteCreatedEvent(c *Cliente) *ClienteCreatedEvent {
	return &ClienteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClienteCreated, "Cliente", c.ID),
		Nombre:          c.Nombre,
	}
}

// ExpedienteCreatedEvent is published when an expediente is opened
type ExpedienteCreatedEvent struct {
	shared.BaseDomainEvent
	ClienteID uuid.UUID `json:"cliente_id"`
	Caratula  string    `json:"caratula"`
}

// NewExpedienteCreatedEvent creates an ExpedienteCreatedEvent
func NewExpedienteCreatedEvent(e *Expediente) *ExpedienteCreatedEvent {
	return &ExpedienteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpedienteCreated, "Expediente", e.ID),
		ClienteID:       e.ClienteID,
		Caratula:        e.Caratula,
	}
}

// ExpedienteEstadoChangedEvent is published on procedural state transitions
type ExpedienteEstadoChangedEvent struct {
	shared.BaseDomainEvent
	Previous ExpedienteEstado `json:"previous"`
	Current  ExpedienteEstado `json:"current"`
}

// NewExpedienteEstadoChangedEvent creates an ExpedienteEstadoChangedEvent
func NewExpedienteEstadoChangedEvent(e *Expediente, previous ExpedienteEstado) *ExpedienteEstadoChangedEvent {
	return &ExpedienteEstadoChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpedienteEstadoChanged, "Expediente", e.ID),
		Previous:        previous,
		Current:         e.Estado,
	}
}
