package handler

import (
	"github.com/gin-gonic/gin"

	practiceapp "github.com/estudio/backend/internal/application/practice"
	"github.com/estudio/backend/internal/domain/practice"
	"github.com/estudio/backend/internal/interfaces/http/dto"
)

// ClienteHandler handles cliente registry endpoints
type ClienteHandler struct {
	BaseHandler
	clientes *practiceapp.ClienteService
}

// NewClienteHandler creates a new ClienteHandler
func NewClienteHandler(clientes *practiceapp.ClienteService) *ClienteHandler {
	return &ClienteHandler{clientes: clientes}
}

// CreateClienteRequest is the request body for registering a cliente
type CreateClienteRequest struct {
	Nombre         string `json:"nombre" binding:"required,min=1,max=200"`
	DocumentoTipo  string `json:"documento_tipo" binding:"required,oneof=DNI CUIT CUIL"`
	DocumentoValor string `json:"documento_valor" binding:"required,min=1,max=20"`
	Email          string `json:"email" binding:"omitempty,email,max=200"`
	Telefono       string `json:"telefono" binding:"max=50"`
	Domicilio      string `json:"domicilio" binding:"max=500"`
}

// UpdateClienteRequest is the request body for updating a cliente
type UpdateClienteRequest struct {
	Nombre    *string `json:"nombre" binding:"omitempty,min=1,max=200"`
	Email     *string `json:"email" binding:"omitempty,email,max=200"`
	Telefono  *string `json:"telefono" binding:"omitempty,max=50"`
	Domicilio *string `json:"domicilio" binding:"omitempty,max=500"`
}

// ListClientesRequest holds the cliente list query parameters
type ListClientesRequest struct {
	dto.ListRequest
	Activo *bool `form:"activo"`
}

// Create registers a new cliente
func (h *ClienteHandler) Create(c *gin.Context) {
	var req CreateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cliente, err := h.clientes.CreateCliente(c.Request.Context(), practiceapp.CreateClienteCommand{
		Nombre:         req.Nombre,
		DocumentoTipo:  practice.DocumentoTipo(req.DocumentoTipo),
		DocumentoValor: req.DocumentoValor,
		Email:          req.Email,
		Telefono:       req.Telefono,
		Domicilio:      req.Domicilio,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, cliente)
}

// GetByID returns a cliente by id
func (h *ClienteHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	cliente, err := h.clientes.GetCliente(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cliente)
}

// List returns a page of clientes matching the filter
func (h *ClienteHandler) List(c *gin.Context) {
	var req ListClientesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.Normalize()

	page, err := h.clientes.ListClientes(c.Request.Context(), practice.ClienteFilter{
		Search:   req.Search,
		Activo:   req.Activo,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update modifies a cliente's editable fields
func (h *ClienteHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	var req UpdateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cliente, err := h.clientes.UpdateCliente(c.Request.Context(), practiceapp.UpdateClienteCommand{
		ClienteID: id,
		Nombre:    req.Nombre,
		Email:     req.Email,
		Telefono:  req.Telefono,
		Domicilio: req.Domicilio,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cliente)
}

// Deactivate marks a cliente inactive
func (h *ClienteHandler) Deactivate(c *gin.Context) {
	id, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	if err := h.clientes.DeactivateCliente(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
