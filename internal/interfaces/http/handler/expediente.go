package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	practiceapp "github.com/estudio/backend/internal/application/practice"
	"github.com/estudio/backend/internal/domain/practice"
	"github.com/estudio/backend/internal/interfaces/http/dto"
)

// ExpedienteHandler handles expediente and agenda endpoints
type ExpedienteHandler struct {
	BaseHandler
	expedientes *practiceapp.ExpedienteService
}

// NewExpedienteHandler creates a new ExpedienteHandler
func NewExpedienteHandler(expedientes *practiceapp.ExpedienteService) *ExpedienteHandler {
	return &ExpedienteHandler{expedientes: expedientes}
}

// CreateExpedienteRequest is the request body for opening a case
type CreateExpedienteRequest struct {
	ClienteID string `json:"cliente_id" binding:"required,uuid"`
	Caratula  string `json:"caratula" binding:"required,min=1,max=500"`
	Numero    string `json:"numero" binding:"max=50"`
	Fuero     string `json:"fuero" binding:"max=100"`
	Juzgado   string `json:"juzgado" binding:"max=200"`
}

// ChangeEstadoRequest is the request body for a procedural state change
type ChangeEstadoRequest struct {
	Estado string `json:"estado" binding:"required,oneof=EN_TRAMITE PARALIZADO ARCHIVADO"`
}

// ListExpedientesRequest holds the expediente list query parameters
type ListExpedientesRequest struct {
	dto.ListRequest
	ClienteID string `form:"cliente_id" binding:"omitempty,uuid"`
	Estado    string `form:"estado" binding:"omitempty,oneof=EN_TRAMITE PARALIZADO ARCHIVADO"`
}

// CreateEventoRequest is the request body for an agenda entry
type CreateEventoRequest struct {
	Tipo        string    `json:"tipo" binding:"required,oneof=AUDIENCIA VENCIMIENTO REUNION OTRO"`
	Titulo      string    `json:"titulo" binding:"required,min=1,max=200"`
	Descripcion string    `json:"descripcion" binding:"max=1000"`
	Fecha       time.Time `json:"fecha" binding:"required"`
}

// ListEventosRequest holds the agenda query parameters
type ListEventosRequest struct {
	ExpedienteID string     `form:"expediente_id" binding:"omitempty,uuid"`
	Desde        *time.Time `form:"desde" time_format:"2006-01-02"`
	Hasta        *time.Time `form:"hasta" time_format:"2006-01-02"`
	Pendientes   bool       `form:"pendientes"`
}

// Create opens a new expediente
func (h *ExpedienteHandler) Create(c *gin.Context) {
	var req CreateExpedienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		h.BadRequest(c, "Invalid cliente_id format")
		return
	}

	expediente, err := h.expedientes.CreateExpediente(c.Request.Context(), practiceapp.CreateExpedienteCommand{
		ClienteID: clienteID,
		Caratula:  req.Caratula,
		Numero:    req.Numero,
		Fuero:     req.Fuero,
		Juzgado:   req.Juzgado,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, expediente)
}

// GetByID returns an expediente by id
func (h *ExpedienteHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	expediente, err := h.expedientes.GetExpediente(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, expediente)
}

// List returns a page of expedientes matching the filter
func (h *ExpedienteHandler) List(c *gin.Context) {
	var req ListExpedientesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.Normalize()

	filter := practice.ExpedienteFilter{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.ClienteID != "" {
		id := uuid.MustParse(req.ClienteID)
		filter.ClienteID = &id
	}
	if req.Estado != "" {
		estado := practice.ExpedienteEstado(req.Estado)
		filter.Estado = &estado
	}

	page, err := h.expedientes.ListExpedientes(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ChangeEstado moves the expediente to a new procedural state
func (h *ExpedienteHandler) ChangeEstado(c *gin.Context) {
	id, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	var req ChangeEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	expediente, err := h.expedientes.ChangeEstado(c.Request.Context(), id, practice.ExpedienteEstado(req.Estado))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, expediente)
}

// CreateEvento adds an agenda entry to an expediente
func (h *ExpedienteHandler) CreateEvento(c *gin.Context) {
	expedienteID, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	var req CreateEventoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	evento, err := h.expedientes.CreateEvento(c.Request.Context(), practiceapp.CreateEventoCommand{
		ExpedienteID: expedienteID,
		Tipo:         practice.EventoTipo(req.Tipo),
		Titulo:       req.Titulo,
		Descripcion:  req.Descripcion,
		Fecha:        req.Fecha,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, evento)
}

// ListEventos returns agenda entries matching the filter
func (h *ExpedienteHandler) ListEventos(c *gin.Context) {
	var req ListEventosRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	filter := practice.EventoFilter{
		Desde:      req.Desde,
		Hasta:      req.Hasta,
		Pendientes: req.Pendientes,
	}
	if req.ExpedienteID != "" {
		id := uuid.MustParse(req.ExpedienteID)
		filter.ExpedienteID = &id
	}

	eventos, err := h.expedientes.ListEventos(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, eventos)
}

// MarkEventoCumplido flags an agenda entry as handled
func (h *ExpedienteHandler) MarkEventoCumplido(c *gin.Context) {
	id, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	evento, err := h.expedientes.MarkEventoCumplido(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, evento)
}
