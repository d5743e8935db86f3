package practice

import (
	"strings"
	"time"

	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EventoTipo classifies agenda entries
type EventoTipo string

const (
	EventoAudiencia   EventoTipo = "AUDIENCIA"
	EventoVencimiento EventoTipo = "VENCIMIENTO"
	EventoReunion     EventoTipo = "REUNION"
	EventoOtro        EventoTipo = "OTRO"
)

// IsValid checks if the tipo is a known evento type
func (t EventoTipo) IsValid() bool {
	switch t {
	case EventoAudiencia, EventoVencimiento, EventoReunion, EventoOtro:
		return true
	}
	return false
}

// Evento is an agenda entry bound to an expediente: a hearing, a filing
// deadline, a client meeting.
type Evento struct {
	shared.BaseEntity
	ExpedienteID uuid.UUID  `json:"expediente_id"`
	Tipo         EventoTipo `json:"tipo"`
	Titulo       string     `json:"titulo"`
	Descripcion  string     `json:"descripcion"`
	Fecha        time.Time  `json:"fecha"`
	Cumplido     bool       `json:"cumplido"`
}

// NewEvento creates a new pending agenda entry
func NewEvento(expedienteID uuid.UUID, tipo EventoTipo, titulo string, fecha time.Time) (*Evento, error) {
	if expedienteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EXPEDIENTE", "Expediente ID cannot be empty")
	}
	if !tipo.IsValid() {
		return nil, shared.NewDomainError("INVALID_TIPO", "Unknown evento tipo")
	}
	titulo = strings.TrimSpace(titulo)
	if titulo == "" {
		return nil, shared.NewDomainError("INVALID_TITULO", "Título cannot be empty")
	}

	return &Evento{
		BaseEntity:   shared.NewBaseEntity(),
		ExpedienteID: expedienteID,
		Tipo:         tipo,
		Titulo:       titulo,
		Fecha:        fecha,
	}, nil
}

// MarkCumplido flags the entry as handled
func (e *Evento) MarkCumplido() {
	if e.Cumplido {
		return
	}
	e.Cumplido = true
	e.Touch()
}

// IsPast reports whether the evento's date has passed without being handled
func (e *Evento) IsPast() bool {
	return !e.Cumplido && time.Now().After(e.Fecha)
}
