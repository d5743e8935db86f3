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

// GormHonorarioRepository implements HonorarioRepository using GORM
type GormHonorarioRepository struct {
	db *gorm.DB
}

var _ billing.HonorarioRepository = (*GormHonorarioRepository)(nil)

// NewGormHonorarioRepository creates a new GormHonorarioRepository
func NewGormHonorarioRepository(db *gorm.DB) *GormHonorarioRepository {
	return &GormHonorarioRepository{db: db}
}

// FindByID finds an honorario by its ID
func (r *GormHonorarioRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Honorario, error) {
	var model models.HonorarioModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExpediente returns the honorarios agreed for an expediente
func (r *GormHonorarioRepository) FindByExpediente(ctx context.Context, expedienteID uuid.UUID) ([]billing.Honorario, error) {
	var honorarioModels []models.HonorarioModel
	if err := r.db.WithContext(ctx).
		Where("expediente_id = ?", expedienteID).
		Order("fecha ASC").
		Find(&honorarioModels).Error; err != nil {
		return nil, err
	}

	honorarios := make([]billing.Honorario, len(honorarioModels))
	for i, model := range honorarioModels {
		honorarios[i] = *model.ToDomain()
	}
	return honorarios, nil
}

// Save creates or updates an honorario
func (r *GormHonorarioRepository) Save(ctx context.Context, honorario *billing.Honorario) error {
	model := models.HonorarioModelFromDomain(honorario)
	return r.db.WithContext(ctx).Save(model).Error
}
