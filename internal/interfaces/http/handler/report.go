package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	reportapp "github.com/estudio/backend/internal/application/report"
	"github.com/estudio/backend/internal/domain/report"
)

// ReportHandler serves the aggregation reports consumed by the front office
type ReportHandler struct {
	BaseHandler
	reports *reportapp.AggregationService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *reportapp.AggregationService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// SaldosClientesRequest holds the balance report query parameters
type SaldosClientesRequest struct {
	Desde         *time.Time `form:"desde" time_format:"2006-01-02"`
	Hasta         *time.Time `form:"hasta" time_format:"2006-01-02"`
	OnlyWithSaldo bool       `form:"solo_con_saldo"`
	SortBy        string     `form:"sort_by" binding:"omitempty,oneof=nombre saldo"`
	Descending    bool       `form:"desc"`
}

// SaldosClientes returns per-cliente balance rows. The row shape is an
// external contract consumed by the saldo spreadsheet; do not change it.
func (h *ReportHandler) SaldosClientes(c *gin.Context) {
	var req SaldosClientesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	query := report.BalanceQuery{
		Desde:         req.Desde,
		Hasta:         req.Hasta,
		OnlyWithSaldo: req.OnlyWithSaldo,
		SortBy:        report.SortByNombre,
		Descending:    req.Descending,
	}
	if req.SortBy != "" {
		query.SortBy = report.SortField(req.SortBy)
	}

	rows, err := h.reports.ClienteBalances(c.Request.Context(), query)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, rows)
}
