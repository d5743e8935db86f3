package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estudio/backend/internal/domain/practice"
	"github.com/estudio/backend/internal/domain/shared"
	"github.com/estudio/backend/internal/infrastructure/persistence/models"
)

// GormAdjuntoRepository implements AdjuntoRepository using GORM
type GormAdjuntoRepository struct {
	db *gorm.DB
}

var _ practice.AdjuntoRepository = (*GormAdjuntoRepository)(nil)

// NewGormAdjuntoRepository creates a new GormAdjuntoRepository
func NewGormAdjuntoRepository(db *gorm.DB) *GormAdjuntoRepository {
	return &GormAdjuntoRepository{db: db}
}

// FindByID finds attachment metadata by its ID
func (r *GormAdjuntoRepository) FindByID(ctx context.Context, id uuid.UUID) (*practice.Adjunto, error) {
	var model models.AdjuntoModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExpediente returns the attachments of an expediente
func (r *GormAdjuntoRepository) FindByExpediente(ctx context.Context, expedienteID uuid.UUID) ([]practice.Adjunto, error) {
	var adjuntoModels []models.AdjuntoModel
	if err := r.db.WithContext(ctx).
		Where("expediente_id = ?", expedienteID).
		Order("created_at ASC").
		Find(&adjuntoModels).Error; err != nil {
		return nil, err
	}

	adjuntos := make([]practice.Adjunto, len(adjuntoModels))
	for i, model := range adjuntoModels {
		adjuntos[i] = *model.ToDomain()
	}
	return adjuntos, nil
}

// Save creates or updates attachment metadata
func (r *GormAdjuntoRepository) Save(ctx context.Context, adjunto *practice.Adjunto) error {
	model := models.AdjuntoModelFromDomain(adjunto)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes attachment metadata. The object itself is deleted
// through the storage service.
func (r *GormAdjuntoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AdjuntoModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
