package practice

import (
	"regexp"
	"strings"
	"time"

	"github.com/estudio/backend/internal/domain/shared"
)

// DocumentoTipo is the kind of identity document a cliente registers with
type DocumentoTipo string

const (
	DocumentoDNI  DocumentoTipo = "DNI"
	DocumentoCUIT DocumentoTipo = "CUIT"
	DocumentoCUIL DocumentoTipo = "CUIL"
)

// IsValid checks if the tipo is a known document type
func (d DocumentoTipo) IsValid() bool {
	switch d {
	case DocumentoDNI, DocumentoCUIT, DocumentoCUIL:
		return true
	}
	return false
}

var documentoPattern = regexp.MustCompile(`^[0-9]{7,11}$`)

// Cliente is a client of the estudio, the party expedientes and payment
// plans are billed to.
type Cliente struct {
	shared.BaseAggregateRoot
	Nombre         string        `json:"nombre"`
	DocumentoTipo  DocumentoTipo `json:"documento_tipo"`
	DocumentoValor string        `json:"documento_valor"`
	Email          string        `json:"email"`
	Telefono       string        `json:"telefono"`
	Domicilio      string        `json:"domicilio"`
	Notas          string        `json:"notas"`
	Activo         bool          `json:"activo"`
}

// NewCliente creates a new active cliente
func NewCliente(nombre string, tipo DocumentoTipo, documento string) (*Cliente, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, shared.NewDomainError("INVALID_NOMBRE", "Nombre cannot be empty")
	}
	if len(nombre) > 200 {
		return nil, shared.NewDomainError("INVALID_NOMBRE", "Nombre cannot exceed 200 characters")
	}
	if !tipo.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENTO", "Unknown document type")
	}
	documento = strings.TrimSpace(documento)
	if !documentoPattern.MatchString(documento) {
		return nil, shared.NewDomainError("INVALID_DOCUMENTO", "Document must be 7 to 11 digits")
	}

	c := &Cliente{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Nombre:            nombre,
		DocumentoTipo:     tipo,
		DocumentoValor:    documento,
		Activo:            true,
	}
	c.AddDomainEvent(NewClienteCreatedEvent(c))
	return c, nil
}

// UpdateContacto updates the contact fields
func (c *Cliente) UpdateContacto(email, telefono, domicilio string) {
	c.Email = strings.TrimSpace(email)
	c.Telefono = strings.TrimSpace(telefono)
	c.Domicilio = strings.TrimSpace(domicilio)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Rename changes the cliente's display name
func (c *Cliente) Rename(nombre string) error {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return shared.NewDomainError("INVALID_NOMBRE", "Nombre cannot be empty")
	}
	c.Nombre = nombre
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Deactivate marks the cliente inactive. Inactive clientes keep their
// history but cannot receive new expedientes or ingresos.
func (c *Cliente) Deactivate() error {
	if !c.Activo {
		return shared.ErrInvalidState
	}
	c.Activo = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Activate re-enables an inactive cliente
func (c *Cliente) Activate() error {
	if c.Activo {
		return shared.ErrInvalidState
	}
	c.Activo = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
