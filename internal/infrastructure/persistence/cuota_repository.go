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

// GormCuotaRepository implements CuotaRepository using GORM
type GormCuotaRepository struct {
	db *gorm.DB
}

var _ billing.CuotaRepository = (*GormCuotaRepository)(nil)

// NewGormCuotaRepository creates a new GormCuotaRepository
func NewGormCuotaRepository(db *gorm.DB) *GormCuotaRepository {
	return &GormCuotaRepository{db: db}
}

// FindByID finds a cuota by its ID
func (r *GormCuotaRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Cuota, error) {
	var model models.CuotaModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the cuotas for the given ids. A missing id fails
// with CuotaNotFoundError; callers depend on every selected cuota
// existing.
func (r *GormCuotaRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]billing.Cuota, error) {
	if len(ids) == 0 {
		return []billing.Cuota{}, nil
	}

	var cuotaModels []models.CuotaModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&cuotaModels).Error; err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]*models.CuotaModel, len(cuotaModels))
	for i := range cuotaModels {
		found[cuotaModels[i].ID] = &cuotaModels[i]
	}

	cuotas := make([]billing.Cuota, 0, len(ids))
	for _, id := range ids {
		model, ok := found[id]
		if !ok {
			return nil, &billing.CuotaNotFoundError{CuotaID: id}
		}
		cuotas = append(cuotas, *model.ToDomain())
	}
	return cuotas, nil
}

// FindByPlan returns the cuotas of a plan ordered by numero
func (r *GormCuotaRepository) FindByPlan(ctx context.Context, planID uuid.UUID) ([]billing.Cuota, error) {
	var cuotaModels []models.CuotaModel
	if err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("numero ASC").
		Find(&cuotaModels).Error; err != nil {
		return nil, err
	}

	cuotas := make([]billing.Cuota, len(cuotaModels))
	for i, model := range cuotaModels {
		cuotas[i] = *model.ToDomain()
	}
	return cuotas, nil
}

// Save creates or updates a cuota
func (r *GormCuotaRepository) Save(ctx context.Context, cuota *billing.Cuota) error {
	model := models.CuotaModelFromDomain(cuota)
	return r.db.WithContext(ctx).Save(model).Error
}
