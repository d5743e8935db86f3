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

// GormIngresoRepository implements IngresoRepository using GORM
type GormIngresoRepository struct {
	db *gorm.DB
}

var _ billing.IngresoRepository = (*GormIngresoRepository)(nil)

// NewGormIngresoRepository creates a new GormIngresoRepository
func NewGormIngresoRepository(db *gorm.DB) *GormIngresoRepository {
	return &GormIngresoRepository{db: db}
}

// FindByID finds an ingreso by its ID
func (r *GormIngresoRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Ingreso, error) {
	var model models.IngresoModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns ingresos matching the filter, newest first
func (r *GormIngresoRepository) FindAll(ctx context.Context, filter billing.IngresoFilter) ([]billing.Ingreso, error) {
	var ingresoModels []models.IngresoModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.IngresoModel{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Order("fecha DESC, created_at DESC").Find(&ingresoModels).Error; err != nil {
		return nil, err
	}

	ingresos := make([]billing.Ingreso, len(ingresoModels))
	for i, model := range ingresoModels {
		ingresos[i] = *model.ToDomain()
	}
	return ingresos, nil
}

// Count counts ingresos matching the filter
func (r *GormIngresoRepository) Count(ctx context.Context, filter billing.IngresoFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.IngresoModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an ingreso
func (r *GormIngresoRepository) Save(ctx context.Context, ingreso *billing.Ingreso) error {
	model := models.IngresoModelFromDomain(ingreso)
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormIngresoRepository) applyFilter(query *gorm.DB, filter billing.IngresoFilter) *gorm.DB {
	if filter.ClienteID != nil {
		query = query.Where("cliente_id = ?", *filter.ClienteID)
	}
	if filter.ExpedienteID != nil {
		query = query.Where("expediente_id = ?", *filter.ExpedienteID)
	}
	if filter.FechaDesde != nil {
		query = query.Where("fecha >= ?", *filter.FechaDesde)
	}
	if filter.FechaHasta != nil {
		query = query.Where("fecha <= ?", *filter.FechaHasta)
	}
	return query
}
