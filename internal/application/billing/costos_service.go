package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/estudio/backend/internal/domain/billing"
)

// RegisterCostoCommand records a gasto or honorario against an expediente
type RegisterCostoCommand struct {
	ExpedienteID uuid.UUID
	ClienteID    uuid.UUID
	Fecha        time.Time
	Descripcion  string
	MontoARS     *decimal.Decimal
	CantidadJus  *decimal.Decimal
	ValorJus     *decimal.Decimal
}

func (cmd RegisterCostoCommand) montos() billing.MonetaryFields {
	return billing.MonetaryFields{
		MontoARS:    cmd.MontoARS,
		CantidadJus: cmd.CantidadJus,
		ValorJus:    cmd.ValorJus,
	}
}

// CostoService records gastos and honorarios. Both are plain monetary
// records: they feed expediente cost views and reports but never enter
// the allocation ledger.
type CostoService struct {
	gastos     billing.GastoRepository
	honorarios billing.HonorarioRepository
	logger     *zap.Logger
}

// NewCostoService creates a CostoService
func NewCostoService(gastos billing.GastoRepository, honorarios billing.HonorarioRepository, logger *zap.Logger) *CostoService {
	return &CostoService{
		gastos:     gastos,
		honorarios: honorarios,
		logger:     logger,
	}
}

// RegisterGasto records a reimbursable expense
func (s *CostoService) RegisterGasto(ctx context.Context, cmd RegisterCostoCommand) (*billing.Gasto, error) {
	gasto, err := billing.NewGasto(cmd.ExpedienteID, cmd.ClienteID, cmd.Fecha, cmd.Descripcion, cmd.montos())
	if err != nil {
		return nil, err
	}
	if err := s.gastos.Save(ctx, gasto); err != nil {
		return nil, err
	}
	s.logger.Info("gasto registered",
		zap.String("gasto_id", gasto.ID.String()),
		zap.String("expediente_id", cmd.ExpedienteID.String()))
	return gasto, nil
}

// ListGastos returns the gastos charged to an expediente
func (s *CostoService) ListGastos(ctx context.Context, expedienteID uuid.UUID) ([]billing.Gasto, error) {
	return s.gastos.FindByExpediente(ctx, expedienteID)
}

// RegisterHonorario records a professional fee
func (s *CostoService) RegisterHonorario(ctx context.Context, cmd RegisterCostoCommand) (*billing.Honorario, error) {
	honorario, err := billing.NewHonorario(cmd.ExpedienteID, cmd.ClienteID, cmd.Fecha, cmd.Descripcion, cmd.montos())
	if err != nil {
		return nil, err
	}
	if err := s.honorarios.Save(ctx, honorario); err != nil {
		return nil, err
	}
	s.logger.Info("honorario registered",
		zap.String("honorario_id", honorario.ID.String()),
		zap.String("expediente_id", cmd.ExpedienteID.String()))
	return honorario, nil
}

// ListHonorarios returns the honorarios regulated on an expediente
func (s *CostoService) ListHonorarios(ctx context.Context, expedienteID uuid.UUID) ([]billing.Honorario, error) {
	return s.honorarios.FindByExpediente(ctx, expedienteID)
}
