package billing

import (
	"context"
	"errors"
	"time"

	"github.com/estudio/backend/internal/domain/billing"
	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreatePlanCommand creates a payment plan with generated cuotas. Exactly one
// denomination is used: TotalARS for peso plans, JusPorCuota+ValorJus for
// JUS-indexed plans.
type CreatePlanCommand struct {
	ExpedienteID uuid.UUID
	ClienteID    uuid.UUID
	Descripcion  string
	CantCuotas   int
	PrimerVto    time.Time
	TotalARS     *decimal.Decimal
	JusPorCuota  *decimal.Decimal
	ValorJus     *decimal.Decimal
}

// CuotaWithBalance pairs a cuota with its ledger-derived balance
type CuotaWithBalance struct {
	Cuota   billing.Cuota    `json:"cuota"`
	Balance *billing.Balance `json:"balance"`
}

// PlanService manages payment plans and cuota listings
type PlanService struct {
	scope       TransactionScope
	planes      billing.PlanDePagoRepository
	cuotas      billing.CuotaRepository
	allocations billing.AllocationRepository
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewPlanService creates a PlanService
func NewPlanService(
	scope TransactionScope,
	planes billing.PlanDePagoRepository,
	cuotas billing.CuotaRepository,
	allocations billing.AllocationRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *PlanService {
	return &PlanService{
		scope:       scope,
		planes:      planes,
		cuotas:      cuotas,
		allocations: allocations,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreatePlan creates a plan and its cuotas atomically
func (s *PlanService) CreatePlan(ctx context.Context, cmd CreatePlanCommand) (*billing.PlanDePago, error) {
	plan, err := billing.NewPlanDePago(cmd.ExpedienteID, cmd.ClienteID, cmd.Descripcion)
	if err != nil {
		return nil, err
	}

	switch {
	case cmd.TotalARS != nil:
		err = plan.GenerateCuotasARS(*cmd.TotalARS, cmd.CantCuotas, cmd.PrimerVto)
	case cmd.JusPorCuota != nil && cmd.ValorJus != nil:
		err = plan.GenerateCuotasJUS(*cmd.JusPorCuota, *cmd.ValorJus, cmd.CantCuotas, cmd.PrimerVto)
	default:
		err = shared.NewDomainError("INVALID_PLAN", "Plan needs an ARS total or a JUS denomination")
	}
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Planes().Save(ctx, plan); err != nil {
			return err
		}
		for i := range plan.Cuotas {
			if err := repos.Cuotas().Save(ctx, &plan.Cuotas[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, plan.GetDomainEvents()...); err != nil {
			s.logger.Warn("failed to publish plan events", zap.Error(err))
		}
		plan.ClearDomainEvents()
	}

	s.logger.Info("plan de pago created",
		zap.String("plan_id", plan.ID.String()),
		zap.String("expediente_id", cmd.ExpedienteID.String()),
		zap.Int("cuotas", len(plan.Cuotas)))
	return plan, nil
}

// UpdatePlan changes a plan's description. Cuota amounts and vencimientos
// are fixed once the plan exists and are never regenerated.
func (s *PlanService) UpdatePlan(ctx context.Context, id uuid.UUID, descripcion string) (*billing.PlanDePago, error) {
	plan, err := s.planes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	plan.UpdateDescripcion(descripcion)
	if err := s.planes.Save(ctx, plan); err != nil {
		return nil, err
	}

	plan.Cuotas, err = s.cuotas.FindByPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// GetPlan returns a plan with its cuotas loaded
func (s *PlanService) GetPlan(ctx context.Context, id uuid.UUID) (*billing.PlanDePago, error) {
	plan, err := s.planes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	cuotas, err := s.cuotas.FindByPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Cuotas = cuotas
	return plan, nil
}

// ListPlanesByExpediente returns the plans of an expediente
func (s *PlanService) ListPlanesByExpediente(ctx context.Context, expedienteID uuid.UUID) ([]billing.PlanDePago, error) {
	return s.planes.FindByExpediente(ctx, expedienteID)
}

// ListCuotas returns the cuotas of a plan with their current balances,
// computed live from the allocation ledger.
func (s *PlanService) ListCuotas(ctx context.Context, planID uuid.UUID) ([]CuotaWithBalance, error) {
	cuotas, err := s.cuotas.FindByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	ledger := billing.NewAllocationLedger(s.allocations, s.cuotas)
	calc := billing.NewBalanceCalculator(ledger)

	out := make([]CuotaWithBalance, 0, len(cuotas))
	for i := range cuotas {
		balance, err := calc.BalanceOfCuota(ctx, &cuotas[i])
		if err != nil {
			return nil, err
		}
		out = append(out, CuotaWithBalance{Cuota: cuotas[i], Balance: balance})
	}
	return out, nil
}
