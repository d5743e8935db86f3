package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/estudio/backend/internal/application/billing"
)

// CostoHandler handles gasto and honorario registration per expediente
type CostoHandler struct {
	BaseHandler
	costos *billingapp.CostoService
}

// NewCostoHandler creates a new CostoHandler
func NewCostoHandler(costos *billingapp.CostoService) *CostoHandler {
	return &CostoHandler{costos: costos}
}

// RegisterCostoRequest is the request body for a gasto or honorario
type RegisterCostoRequest struct {
	MontosRequest
	ClienteID   string    `json:"cliente_id" binding:"required,uuid"`
	Fecha       time.Time `json:"fecha" binding:"required"`
	Descripcion string    `json:"descripcion" binding:"max=500"`
}

func (h *CostoHandler) bindCommand(c *gin.Context) (billingapp.RegisterCostoCommand, bool) {
	expedienteID, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return billingapp.RegisterCostoCommand{}, false
	}

	var req RegisterCostoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return billingapp.RegisterCostoCommand{}, false
	}

	return billingapp.RegisterCostoCommand{
		ExpedienteID: expedienteID,
		ClienteID:    uuid.MustParse(req.ClienteID),
		Fecha:        req.Fecha,
		Descripcion:  req.Descripcion,
		MontoARS:     req.MontoARS,
		CantidadJus:  req.CantidadJus,
		ValorJus:     req.ValorJus,
	}, true
}

// RegisterGasto records a reimbursable expense on an expediente
func (h *CostoHandler) RegisterGasto(c *gin.Context) {
	cmd, ok := h.bindCommand(c)
	if !ok {
		return
	}

	gasto, err := h.costos.RegisterGasto(c.Request.Context(), cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, gasto)
}

// ListGastos returns the gastos charged to an expediente
func (h *CostoHandler) ListGastos(c *gin.Context) {
	expedienteID, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	gastos, err := h.costos.ListGastos(c.Request.Context(), expedienteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gastos)
}

// RegisterHonorario records a professional fee on an expediente
func (h *CostoHandler) RegisterHonorario(c *gin.Context) {
	cmd, ok := h.bindCommand(c)
	if !ok {
		return
	}

	honorario, err := h.costos.RegisterHonorario(c.Request.Context(), cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, honorario)
}

// ListHonorarios returns the honorarios regulated on an expediente
func (h *CostoHandler) ListHonorarios(c *gin.Context) {
	expedienteID, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	honorarios, err := h.costos.ListHonorarios(c.Request.Context(), expedienteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, honorarios)
}
