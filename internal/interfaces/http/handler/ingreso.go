package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/estudio/backend/internal/application/billing"
	"github.com/estudio/backend/internal/domain/billing"
	"github.com/estudio/backend/internal/interfaces/http/dto"
)

// IngresoHandler handles payment registration, reconciliation and voiding
type IngresoHandler struct {
	BaseHandler
	ingresos *billingapp.IngresoService
}

// NewIngresoHandler creates a new IngresoHandler
func NewIngresoHandler(ingresos *billingapp.IngresoService) *IngresoHandler {
	return &IngresoHandler{ingresos: ingresos}
}

// MontosRequest carries the dual-denomination amount fields. Either monto_ars
// or the cantidad_jus/valor_jus pair is set; resolution precedence is applied
// downstream.
type MontosRequest struct {
	MontoARS    *decimal.Decimal `json:"monto_ars"`
	CantidadJus *decimal.Decimal `json:"cantidad_jus"`
	ValorJus    *decimal.Decimal `json:"valor_jus"`
}

func (r MontosRequest) toMonetaryFields() billing.MonetaryFields {
	return billing.MonetaryFields{
		MontoARS:    r.MontoARS,
		CantidadJus: r.CantidadJus,
		ValorJus:    r.ValorJus,
	}
}

// CuotaApplicationRequest is one explicit ingreso→cuota application
type CuotaApplicationRequest struct {
	CuotaID string          `json:"cuota_id" binding:"required,uuid"`
	Monto   decimal.Decimal `json:"monto" binding:"required"`
}

// CreateIngresoRequest is the request body for registering a payment
type CreateIngresoRequest struct {
	MontosRequest
	ClienteID          string                    `json:"cliente_id" binding:"required,uuid"`
	ExpedienteID       string                    `json:"expediente_id" binding:"omitempty,uuid"`
	Fecha              time.Time                 `json:"fecha" binding:"required"`
	Concepto           string                    `json:"concepto" binding:"max=500"`
	AplicacionesCuotas []CuotaApplicationRequest `json:"aplicaciones_cuotas" binding:"omitempty,dive"`
}

// ReconcileIngresoRequest is the request body for re-matching a payment
type ReconcileIngresoRequest struct {
	SelectedCuotaIDs      []string       `json:"selected_cuota_ids" binding:"omitempty,dive,uuid"`
	ForceReaplicarParcial bool           `json:"force_reaplicar_parcial"`
	ConfirmarAjuste       bool           `json:"confirmar_ajuste"`
	Montos                *MontosRequest `json:"montos"`
}

// ReconcileResponse is the payload returned by allocation-changing operations
type ReconcileResponse struct {
	Ingreso       *billing.Ingreso           `json:"ingreso"`
	Allocations   []billing.Allocation       `json:"allocations"`
	ChangedCuotas []billing.CuotaStateChange `json:"changed_cuotas"`
	Remanente     decimal.Decimal            `json:"remanente"`
	Warnings      []string                   `json:"warnings"`
}

func newReconcileResponse(result *billing.ReconcileResult) ReconcileResponse {
	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return ReconcileResponse{
		Ingreso:       result.Ingreso,
		Allocations:   result.Allocations,
		ChangedCuotas: result.ChangedCuotas,
		Remanente:     result.Remanente,
		Warnings:      warnings,
	}
}

// IngresoDetailResponse pairs an ingreso with its allocation history
type IngresoDetailResponse struct {
	Ingreso     *billing.Ingreso     `json:"ingreso"`
	Allocations []billing.Allocation `json:"allocations"`
}

// ListIngresosRequest holds the ingreso list query parameters
type ListIngresosRequest struct {
	dto.ListRequest
	ClienteID    string     `form:"cliente_id" binding:"omitempty,uuid"`
	ExpedienteID string     `form:"expediente_id" binding:"omitempty,uuid"`
	FechaDesde   *time.Time `form:"fecha_desde" time_format:"2006-01-02"`
	FechaHasta   *time.Time `form:"fecha_hasta" time_format:"2006-01-02"`
}

// Create registers a payment, optionally applying it to cuotas atomically
func (h *IngresoHandler) Create(c *gin.Context) {
	var req CreateIngresoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cmd := billingapp.CreateIngresoCommand{
		ClienteID: uuid.MustParse(req.ClienteID),
		Fecha:     req.Fecha,
		Concepto:  req.Concepto,
		Montos:    req.toMonetaryFields(),
	}
	if req.ExpedienteID != "" {
		id := uuid.MustParse(req.ExpedienteID)
		cmd.ExpedienteID = &id
	}
	for _, app := range req.AplicacionesCuotas {
		cmd.Aplicaciones = append(cmd.Aplicaciones, billing.CuotaApplication{
			CuotaID: uuid.MustParse(app.CuotaID),
			Monto:   app.Monto,
		})
	}

	result, err := h.ingresos.CreateIngreso(c.Request.Context(), cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, newReconcileResponse(result))
}

// Reconcile re-matches an ingreso against the selected cuotas
func (h *IngresoHandler) Reconcile(c *gin.Context) {
	id, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	var req ReconcileIngresoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cmd := billingapp.ReconcileIngresoCommand{
		IngresoID:             id,
		ForceReaplicarParcial: req.ForceReaplicarParcial,
		ConfirmarAjuste:       req.ConfirmarAjuste,
	}
	for _, cuotaID := range req.SelectedCuotaIDs {
		cmd.SelectedCuotaIDs = append(cmd.SelectedCuotaIDs, uuid.MustParse(cuotaID))
	}
	if req.Montos != nil {
		montos := req.Montos.toMonetaryFields()
		cmd.Montos = &montos
	}

	result, err := h.ingresos.Reconcile(c.Request.Context(), cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, newReconcileResponse(result))
}

// Anular voids an ingreso and all its allocations
func (h *IngresoHandler) Anular(c *gin.Context) {
	id, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	result, err := h.ingresos.AnularIngreso(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, newReconcileResponse(result))
}

// GetByID returns an ingreso with its allocation history
func (h *IngresoHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	ingreso, allocations, err := h.ingresos.GetIngreso(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, IngresoDetailResponse{Ingreso: ingreso, Allocations: allocations})
}

// List returns a page of ingresos matching the filter
func (h *IngresoHandler) List(c *gin.Context) {
	var req ListIngresosRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.Normalize()

	filter := billing.IngresoFilter{
		FechaDesde: req.FechaDesde,
		FechaHasta: req.FechaHasta,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if req.ClienteID != "" {
		id := uuid.MustParse(req.ClienteID)
		filter.ClienteID = &id
	}
	if req.ExpedienteID != "" {
		id := uuid.MustParse(req.ExpedienteID)
		filter.ExpedienteID = &id
	}

	page, err := h.ingresos.ListIngresos(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
