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

// GormExpedienteRepository implements ExpedienteRepository using GORM
type GormExpedienteRepository struct {
	db *gorm.DB
}

var _ practice.ExpedienteRepository = (*GormExpedienteRepository)(nil)

// NewGormExpedienteRepository creates a new GormExpedienteRepository
func NewGormExpedienteRepository(db *gorm.DB) *GormExpedienteRepository {
	return &GormExpedienteRepository{db: db}
}

// FindByID finds an expediente by its ID
func (r *GormExpedienteRepository) FindByID(ctx context.Context, id uuid.UUID) (*practice.Expediente, error) {
	var model models.ExpedienteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns expedientes matching the filter, newest first
func (r *GormExpedienteRepository) FindAll(ctx context.Context, filter practice.ExpedienteFilter) ([]practice.Expediente, error) {
	var expedienteModels []models.ExpedienteModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ExpedienteModel{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Order("created_at DESC").Find(&expedienteModels).Error; err != nil {
		return nil, err
	}

	expedientes := make([]practice.Expediente, len(expedienteModels))
	for i, model := range expedienteModels {
		expedientes[i] = *model.ToDomain()
	}
	return expedientes, nil
}

// Count counts expedientes matching the filter
func (r *GormExpedienteRepository) Count(ctx context.Context, filter practice.ExpedienteFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ExpedienteModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an expediente
func (r *GormExpedienteRepository) Save(ctx context.Context, expediente *practice.Expediente) error {
	model := models.ExpedienteModelFromDomain(expediente)
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormExpedienteRepository) applyFilter(query *gorm.DB, filter practice.ExpedienteFilter) *gorm.DB {
	if filter.ClienteID != nil {
		query = query.Where("cliente_id = ?", *filter.ClienteID)
	}
	if filter.Estado != nil {
		query = query.Where("estado = ?", *filter.Estado)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("caratula LIKE ? OR numero LIKE ?", pattern, pattern)
	}
	return query
}
