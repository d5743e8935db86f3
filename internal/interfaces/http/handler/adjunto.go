package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	practiceapp "github.com/estudio/backend/internal/application/practice"
)

// AdjuntoHandler handles attachment endpoints. File bytes never pass through
// the backend: uploads and downloads go straight to object storage via
// presigned URLs.
type AdjuntoHandler struct {
	BaseHandler
	adjuntos *practiceapp.AdjuntoService
}

// NewAdjuntoHandler creates a new AdjuntoHandler
func NewAdjuntoHandler(adjuntos *practiceapp.AdjuntoService) *AdjuntoHandler {
	return &AdjuntoHandler{adjuntos: adjuntos}
}

// RegisterAdjuntoRequest is the request body for registering an attachment
type RegisterAdjuntoRequest struct {
	Nombre      string `json:"nombre" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
	Size        int64  `json:"size" binding:"required,gt=0"`
}

// DownloadURLResponse carries a presigned download URL
type DownloadURLResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Register stores attachment metadata and returns the upload ticket
func (h *AdjuntoHandler) Register(c *gin.Context) {
	expedienteID, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	var req RegisterAdjuntoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ticket, err := h.adjuntos.RegisterAdjunto(c.Request.Context(), practiceapp.RegisterAdjuntoCommand{
		ExpedienteID: expedienteID,
		Nombre:       req.Nombre,
		ContentType:  req.ContentType,
		Size:         req.Size,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, ticket)
}

// ListByExpediente returns the attachments filed under an expediente
func (h *AdjuntoHandler) ListByExpediente(c *gin.Context) {
	expedienteID, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	adjuntos, err := h.adjuntos.ListByExpediente(c.Request.Context(), expedienteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, adjuntos)
}

// DownloadURL issues a presigned download URL for an uploaded attachment
func (h *AdjuntoHandler) DownloadURL(c *gin.Context) {
	id, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	url, expiresAt, err := h.adjuntos.DownloadURL(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, DownloadURLResponse{DownloadURL: url, ExpiresAt: expiresAt})
}

// Delete removes the attachment metadata and the stored object
func (h *AdjuntoHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	if err := h.adjuntos.DeleteAdjunto(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
