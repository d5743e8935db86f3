package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/estudio/backend/internal/domain/practice"
)

// ClienteModel is the persistence model for the Cliente aggregate.
type ClienteModel struct {
	AggregateModel
	Nombre         string                 `gorm:"type:varchar(200);not null;index"`
	DocumentoTipo  practice.DocumentoTipo `gorm:"type:varchar(10);not null;uniqueIndex:idx_cliente_documento,priority:1"`
	DocumentoValor string                 `gorm:"type:varchar(20);not null;uniqueIndex:idx_cliente_documento,priority:2"`
	Email          string                 `gorm:"type:varchar(200)"`
	Telefono       string                 `gorm:"type:varchar(50)"`
	Domicilio      string                 `gorm:"type:text"`
	Notas          string                 `gorm:"type:text"`
	Activo         bool                   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ClienteModel) TableName() string {
	return "clientes"
}

// ToDomain converts the persistence model to a domain Cliente
func (m *ClienteModel) ToDomain() *practice.Cliente {
	return &practice.Cliente{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Nombre:            m.Nombre,
		DocumentoTipo:     m.DocumentoTipo,
		DocumentoValor:    m.DocumentoValor,
		Email:             m.Email,
		Telefono:          m.Telefono,
		Domicilio:         m.Domicilio,
		Notas:             m.Notas,
		Activo:            m.Activo,
	}
}

// ClienteModelFromDomain creates a persistence model from a domain Cliente
func ClienteModelFromDomain(c *practice.Cliente) *ClienteModel {
	m := &ClienteModel{}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Nombre = c.Nombre
	m.DocumentoTipo = c.DocumentoTipo
	m.DocumentoValor = c.DocumentoValor
	m.Email = c.Email
	m.Telefono = c.Telefono
	m.Domicilio = c.Domicilio
	m.Notas = c.Notas
	m.Activo = c.Activo
	return m
}

// ExpedienteModel is the persistence model for the Expediente aggregate.
type ExpedienteModel struct {
	AggregateModel
	ClienteID uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Caratula  string                    `gorm:"type:text;not null"`
	Numero    string                    `gorm:"type:varchar(100);index"`
	Fuero     string                    `gorm:"type:varchar(100)"`
	Juzgado   string                    `gorm:"type:varchar(200)"`
	Estado    practice.ExpedienteEstado `gorm:"type:varchar(20);not null;default:'EN_TRAMITE';index"`
	Notas     string                    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ExpedienteModel) TableName() string {
	return "expedientes"
}

// ToDomain converts the persistence model to a domain Expediente
func (m *ExpedienteModel) ToDomain() *practice.Expediente {
	return &practice.Expediente{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ClienteID:         m.ClienteID,
		Caratula:          m.Caratula,
		Numero:            m.Numero,
		Fuero:             m.Fuero,
		Juzgado:           m.Juzgado,
		Estado:            m.Estado,
		Notas:             m.Notas,
	}
}

// ExpedienteModelFromDomain creates a persistence model from a domain Expediente
func ExpedienteModelFromDomain(e *practice.Expediente) *ExpedienteModel {
	m := &ExpedienteModel{}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.ClienteID = e.ClienteID
	m.Caratula = e.Caratula
	m.Numero = e.Numero
	m.Fuero = e.Fuero
	m.Juzgado = e.Juzgado
	m.Estado = e.Estado
	m.Notas = e.Notas
	return m
}

// EventoModel is the persistence model for agenda eventos.
type EventoModel struct {
	BaseModel
	ExpedienteID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Tipo         practice.EventoTipo `gorm:"type:varchar(20);not null"`
	Titulo       string              `gorm:"type:varchar(200);not null"`
	Descripcion  string              `gorm:"type:text"`
	Fecha        time.Time           `gorm:"not null;index"`
	Cumplido     bool                `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (EventoModel) TableName() string {
	return "eventos"
}

// ToDomain converts the persistence model to a domain Evento
func (m *EventoModel) ToDomain() *practice.Evento {
	return &practice.Evento{
		BaseEntity:   m.BaseModel.ToDomain(),
		ExpedienteID: m.ExpedienteID,
		Tipo:         m.Tipo,
		Titulo:       m.Titulo,
		Descripcion:  m.Descripcion,
		Fecha:        m.Fecha,
		Cumplido:     m.Cumplido,
	}
}

// EventoModelFromDomain creates a persistence model from a domain Evento
func EventoModelFromDomain(e *practice.Evento) *EventoModel {
	m := &EventoModel{}
	m.FromDomainBaseEntity(e.BaseEntity)
	m.ExpedienteID = e.ExpedienteID
	m.Tipo = e.Tipo
	m.Titulo = e.Titulo
	m.Descripcion = e.Descripcion
	m.Fecha = e.Fecha
	m.Cumplido = e.Cumplido
	return m
}

// AdjuntoModel is the persistence model for attachment metadata.
type AdjuntoModel struct {
	BaseModel
	ExpedienteID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre       string    `gorm:"type:varchar(300);not null"`
	ContentType  string    `gorm:"type:varchar(100)"`
	Size         int64     `gorm:"not null"`
	StorageKey   string    `gorm:"type:varchar(500);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (AdjuntoModel) TableName() string {
	return "adjuntos"
}

// ToDomain converts the persistence model to a domain Adjunto
func (m *AdjuntoModel) ToDomain() *practice.Adjunto {
	return &practice.Adjunto{
		BaseEntity:   m.BaseModel.ToDomain(),
		ExpedienteID: m.ExpedienteID,
		Nombre:       m.Nombre,
		ContentType:  m.ContentType,
		Size:         m.Size,
		StorageKey:   m.StorageKey,
	}
}

// AdjuntoModelFromDomain creates a persistence model from a domain Adjunto
func AdjuntoModelFromDomain(a *practice.Adjunto) *AdjuntoModel {
	m := &AdjuntoModel{}
	m.FromDomainBaseEntity(a.BaseEntity)
	m.ExpedienteID = a.ExpedienteID
	m.Nombre = a.Nombre
	m.ContentType = a.ContentType
	m.Size = a.Size
	m.StorageKey = a.StorageKey
	return m
}
