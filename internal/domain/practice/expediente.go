package practice

import (
	"strings"
	"time"

	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ExpedienteEstado is the procedural state of a case
type ExpedienteEstado string

const (
	ExpedienteEnTramite  ExpedienteEstado = "EN_TRAMITE"
	ExpedienteParalizado ExpedienteEstado = "PARALIZADO"
	ExpedienteArchivado  ExpedienteEstado = "ARCHIVADO"
)

// IsValid checks if the estado is a known case state
func (e ExpedienteEstado) IsValid() bool {
	switch e {
	case ExpedienteEnTramite, ExpedienteParalizado, ExpedienteArchivado:
		return true
	}
	return false
}

// Expediente is a court case handled for a cliente. Payment plans,
// honorarios and gastos all hang off an expediente.
type Expediente struct {
	shared.BaseAggregateRoot
	ClienteID uuid.UUID        `json:"cliente_id"`
	Caratula  string           `json:"caratula"`
	Numero    string           `json:"numero"`
	Fuero     string           `json:"fuero"`
	Juzgado   string           `json:"juzgado"`
	Estado    ExpedienteEstado `json:"estado"`
	Notas     string           `json:"notas"`
}

// NewExpediente creates a new expediente in estado EN_TRAMITE
func NewExpediente(clienteID uuid.UUID, caratula, numero, fuero, juzgado string) (*Expediente, error) {
	if clienteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENTE", "Cliente ID cannot be empty")
	}
	caratula = strings.TrimSpace(caratula)
	if caratula == "" {
		return nil, shared.NewDomainError("INVALID_CARATULA", "Carátula cannot be empty")
	}

	e := &Expediente{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClienteID:         clienteID,
		Caratula:          caratula,
		Numero:            strings.TrimSpace(numero),
		Fuero:             strings.TrimSpace(fuero),
		Juzgado:           strings.TrimSpace(juzgado),
		Estado:            ExpedienteEnTramite,
	}
	e.AddDomainEvent(NewExpedienteCreatedEvent(e))
	return e, nil
}

// ChangeEstado moves the expediente to a new procedural state
func (e *Expediente) ChangeEstado(estado ExpedienteEstado) error {
	if !estado.IsValid() {
		return shared.NewDomainError("INVALID_ESTADO", "Unknown expediente estado")
	}
	if e.Estado == estado {
		return nil
	}
	previous := e.Estado
	e.Estado = estado
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	e.AddDomainEvent(NewExpedienteEstadoChangedEvent(e, previous))
	return nil
}

// UpdateCaratula replaces the case caption
func (e *Expediente) UpdateCaratula(caratula string) error {
	caratula = strings.TrimSpace(caratula)
	if caratula == "" {
		return shared.NewDomainError("INVALID_CARATULA", "Carátula cannot be empty")
	}
	e.Caratula = caratula
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// Archive is a convenience for the terminal state
func (e *Expediente) Archive() error {
	return e.ChangeEstado(ExpedienteArchivado)
}
