package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estudio/backend/internal/domain/billing"
	"github.com/estudio/backend/internal/domain/shared"
	"github.com/estudio/backend/internal/infrastructure/persistence/models"
)

// GormPlanDePagoRepository implements PlanDePagoRepository using GORM
type GormPlanDePagoRepository struct {
	db *gorm.DB
}

var _ billing.PlanDePagoRepository = (*GormPlanDePagoRepository)(nil)

// NewGormPlanDePagoRepository creates a new GormPlanDePagoRepository
func NewGormPlanDePagoRepository(db *gorm.DB) *GormPlanDePagoRepository {
	return &GormPlanDePagoRepository{db: db}
}

// FindByID finds a plan by its ID. Cuotas are loaded separately
// through the cuota repository.
func (r *GormPlanDePagoRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PlanDePago, error) {
	var model models.PlanDePagoModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExpediente returns the plans of an expediente
func (r *GormPlanDePagoRepository) FindByExpediente(ctx context.Context, expedienteID uuid.UUID) ([]billing.PlanDePago, error) {
	var planModels []models.PlanDePagoModel
	if err := r.db.WithContext(ctx).
		Where("expediente_id = ?", expedienteID).
		Order("created_at ASC").
		Find(&planModels).Error; err != nil {
		return nil, err
	}

	planes := make([]billing.PlanDePago, len(planModels))
	for i, model := range planModels {
		planes[i] = *model.ToDomain()
	}
	return planes, nil
}

// FindByCliente returns the plans billed to a cliente
func (r *GormPlanDePagoRepository) FindByCliente(ctx context.Context, clienteID uuid.UUID) ([]billing.PlanDePago, error) {
	var planModels []models.PlanDePagoModel
	if err := r.db.WithContext(ctx).
		Where("cliente_id = ?", clienteID).
		Order("created_at ASC").
		Find(&planModels).Error; err != nil {
		return nil, err
	}

	planes := make([]billing.PlanDePago, len(planModels))
	for i, model := range planModels {
		planes[i] = *model.ToDomain()
	}
	return planes, nil
}

// Save creates or updates a plan header. Cuotas are saved through the
// cuota repository within the same transaction scope.
func (r *GormPlanDePagoRepository) Save(ctx context.Context, plan *billing.PlanDePago) error {
	model := models.PlanDePagoModelFromDomain(plan)
	return r.db.WithContext(ctx).Save(model).Error
}
