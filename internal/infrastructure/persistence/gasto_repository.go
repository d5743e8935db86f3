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

// GormGastoRepository implements GastoRepository using GORM
type GormGastoRepository struct {
	db *gorm.DB
}

var _ billing.GastoRepository = (*GormGastoRepository)(nil)

// NewGormGastoRepository creates a new GormGastoRepository
func NewGormGastoRepository(db *gorm.DB) *GormGastoRepository {
	return &GormGastoRepository{db: db}
}

// FindByID finds a gasto by its ID
func (r *GormGastoRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Gasto, error) {
	var model models.GastoModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExpediente returns the gastos charged to an expediente
func (r *GormGastoRepository) FindByExpediente(ctx context.Context, expedienteID uuid.UUID) ([]billing.Gasto, error) {
	var gastoModels []models.GastoModel
	if err := r.db.WithContext(ctx).
		Where("expediente_id = ?", expedienteID).
		Order("fecha ASC").
		Find(&gastoModels).Error; err != nil {
		return nil, err
	}

	gastos := make([]billing.Gasto, len(gastoModels))
	for i, model := range gastoModels {
		gastos[i] = *model.ToDomain()
	}
	return gastos, nil
}

// Save creates or updates a gasto
func (r *GormGastoRepository) Save(ctx context.Context, gasto *billing.Gasto) error {
	model := models.GastoModelFromDomain(gasto)
	return r.db.WithContext(ctx).Save(model).Error
}
