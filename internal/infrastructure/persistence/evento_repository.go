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

// GormEventoRepository implements EventoRepository using GORM
type GormEventoRepository struct {
	db *gorm.DB
}

var _ practice.EventoRepository = (*GormEventoRepository)(nil)

// NewGormEventoRepository creates a new GormEventoRepository
func NewGormEventoRepository(db *gorm.DB) *GormEventoRepository {
	return &GormEventoRepository{db: db}
}

// FindByID finds an evento by its ID
func (r *GormEventoRepository) FindByID(ctx context.Context, id uuid.UUID) (*practice.Evento, error) {
	var model models.EventoModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns agenda eventos matching the filter in date order
func (r *GormEventoRepository) FindAll(ctx context.Context, filter practice.EventoFilter) ([]practice.Evento, error) {
	var eventoModels []models.EventoModel
	query := r.db.WithContext(ctx).Model(&models.EventoModel{})

	if filter.ExpedienteID != nil {
		query = query.Where("expediente_id = ?", *filter.ExpedienteID)
	}
	if filter.Desde != nil {
		query = query.Where("fecha >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		query = query.Where("fecha <= ?", *filter.Hasta)
	}
	if filter.Pendientes {
		query = query.Where("cumplido = ?", false)
	}

	if err := query.Order("fecha ASC").Find(&eventoModels).Error; err != nil {
		return nil, err
	}

	eventos := make([]practice.Evento, len(eventoModels))
	for i, model := range eventoModels {
		eventos[i] = *model.ToDomain()
	}
	return eventos, nil
}

// Save creates or updates an evento
func (r *GormEventoRepository) Save(ctx context.Context, evento *practice.Evento) error {
	model := models.EventoModelFromDomain(evento)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an evento
func (r *GormEventoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EventoModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
