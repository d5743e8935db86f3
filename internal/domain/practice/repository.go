package practice

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ClienteFilter narrows cliente queries
type ClienteFilter struct {
	Search   string // matches nombre or documento
	Activo   *bool
	Page     int
	PageSize int
}

// ClienteRepository provides access to clientes
type ClienteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Cliente, error)
	FindByDocumento(ctx context.Context, tipo DocumentoTipo, valor string) (*Cliente, error)
	FindAll(ctx context.Context, filter ClienteFilter) ([]Cliente, error)
	Count(ctx context.Context, filter ClienteFilter) (int64, error)
	Save(ctx context.Context, cliente *Cliente) error
}

// ExpedienteFilter narrows expediente queries
type ExpedienteFilter struct {
	ClienteID *uuid.UUID
	Estado    *ExpedienteEstado
	Search    string // matches carátula or número
	Page      int
	PageSize  int
}

// ExpedienteRepository provides access to expedientes
type ExpedienteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expediente, error)
	FindAll(ctx context.Context, filter ExpedienteFilter) ([]Expediente, error)
	Count(ctx context.Context, filter ExpedienteFilter) (int64, error)
	Save(ctx context.Context, expediente *Expediente) error
}

// EventoFilter narrows agenda queries
type EventoFilter struct {
	ExpedienteID *uuid.UUID
	Desde        *time.Time
	Hasta        *time.Time
	Pendientes   bool // only not-yet-cumplido entries
}

// EventoRepository provides access to agenda eventos
type EventoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Evento, error)
	FindAll(ctx context.Context, filter EventoFilter) ([]Evento, error)
	Save(ctx context.Context, evento *Evento) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdjuntoRepository provides access to attachment metadata
type AdjuntoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Adjunto, error)
	FindByExpediente(ctx context.Context, expedienteID uuid.UUID) ([]Adjunto, error)
	Save(ctx context.Context, adjunto *Adjunto) error
	Delete(ctx context.Context, id uuid.UUID) error
}
