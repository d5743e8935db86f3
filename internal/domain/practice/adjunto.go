package practice

import (
	"path"
	"strings"

	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// maxAdjuntoSize caps uploads at 50 MB
const maxAdjuntoSize = 50 << 20

// Adjunto is attachment metadata for a document filed under an expediente.
// The bytes themselves live in object storage under StorageKey.
type Adjunto struct {
	shared.BaseEntity
	ExpedienteID uuid.UUID `json:"expediente_id"`
	Nombre       string    `json:"nombre"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	StorageKey   string    `json:"storage_key"`
}

// NewAdjunto creates attachment metadata and derives its storage key
func NewAdjunto(expedienteID uuid.UUID, nombre, contentType string, size int64) (*Adjunto, error) {
	if expedienteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EXPEDIENTE", "Expediente ID cannot be empty")
	}
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, shared.NewDomainError("INVALID_NOMBRE", "File name cannot be empty")
	}
	if size <= 0 || size > maxAdjuntoSize {
		return nil, shared.NewDomainError("INVALID_SIZE", "File size out of range")
	}

	a := &Adjunto{
		BaseEntity:   shared.NewBaseEntity(),
		ExpedienteID: expedienteID,
		Nombre:       nombre,
		ContentType:  contentType,
		Size:         size,
	}
	// Keys are namespaced by expediente so listing a case's documents is a
	// prefix scan in the object store.
	a.StorageKey = path.Join("expedientes", expedienteID.String(), a.ID.String()+path.Ext(nombre))
	return a, nil
}
