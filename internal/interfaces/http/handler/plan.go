package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/estudio/backend/internal/application/billing"
)

// PlanHandler handles payment plan endpoints
type PlanHandler struct {
	BaseHandler
	planes *billingapp.PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planes *billingapp.PlanService) *PlanHandler {
	return &PlanHandler{planes: planes}
}

// CreatePlanRequest is the request body for a payment plan. Exactly one
// denomination is used: total_ars for peso plans, jus_por_cuota plus
// valor_jus for JUS-indexed plans.
type CreatePlanRequest struct {
	ExpedienteID string           `json:"expediente_id" binding:"required,uuid"`
	ClienteID    string           `json:"cliente_id" binding:"required,uuid"`
	Descripcion  string           `json:"descripcion" binding:"max=500"`
	CantCuotas   int              `json:"cant_cuotas" binding:"required,gt=0,max=120"`
	PrimerVto    time.Time        `json:"primer_vencimiento" binding:"required"`
	TotalARS     *decimal.Decimal `json:"total_ars"`
	JusPorCuota  *decimal.Decimal `json:"jus_por_cuota"`
	ValorJus     *decimal.Decimal `json:"valor_jus"`
}

// Create creates a plan and its cuotas atomically
func (h *PlanHandler) Create(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	plan, err := h.planes.CreatePlan(c.Request.Context(), billingapp.CreatePlanCommand{
		ExpedienteID: uuid.MustParse(req.ExpedienteID),
		ClienteID:    uuid.MustParse(req.ClienteID),
		Descripcion:  req.Descripcion,
		CantCuotas:   req.CantCuotas,
		PrimerVto:    req.PrimerVto,
		TotalARS:     req.TotalARS,
		JusPorCuota:  req.JusPorCuota,
		ValorJus:     req.ValorJus,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, plan)
}

// UpdatePlanRequest is the request body for editing a plan
type UpdatePlanRequest struct {
	Descripcion string `json:"descripcion" binding:"max=500"`
}

// Update edits a plan's description
func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	plan, err := h.planes.UpdatePlan(c.Request.Context(), id, req.Descripcion)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, plan)
}

// GetByID returns a plan with its cuotas
func (h *PlanHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	plan, err := h.planes.GetPlan(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, plan)
}

// ListByExpediente returns the plans filed under an expediente
func (h *PlanHandler) ListByExpediente(c *gin.Context) {
	expedienteID, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	planes, err := h.planes.ListPlanesByExpediente(c.Request.Context(), expedienteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, planes)
}

// ListCuotas returns the cuotas of a plan with their live balances
func (h *PlanHandler) ListCuotas(c *gin.Context) {
	planID, ok := parseUUIDParam(c, &h.BaseHandler, "id")
	if !ok {
		return
	}

	cuotas, err := h.planes.ListCuotas(c.Request.Context(), planID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cuotas)
}
