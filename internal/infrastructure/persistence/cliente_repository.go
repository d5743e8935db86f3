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

// GormClienteRepository implements ClienteRepository using GORM
type GormClienteRepository struct {
	db *gorm.DB
}

var _ practice.ClienteRepository = (*GormClienteRepository)(nil)

// NewGormClienteRepository creates a new GormClienteRepository
func NewGormClienteRepository(db *gorm.DB) *GormClienteRepository {
	return &GormClienteRepository{db: db}
}

// FindByID finds a cliente by its ID
func (r *GormClienteRepository) FindByID(ctx context.Context, id uuid.UUID) (*practice.Cliente, error) {
	var model models.ClienteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDocumento finds a cliente by its identity document
func (r *GormClienteRepository) FindByDocumento(ctx context.Context, tipo practice.DocumentoTipo, valor string) (*practice.Cliente, error) {
	var model models.ClienteModel
	if err := r.db.WithContext(ctx).
		Where("documento_tipo = ? AND documento_valor = ?", tipo, valor).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns clientes matching the filter ordered by nombre
func (r *GormClienteRepository) FindAll(ctx context.Context, filter practice.ClienteFilter) ([]practice.Cliente, error) {
	var clienteModels []models.ClienteModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClienteModel{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Order("nombre ASC").Find(&clienteModels).Error; err != nil {
		return nil, err
	}

	clientes := make([]practice.Cliente, len(clienteModels))
	for i, model := range clienteModels {
		clientes[i] = *model.ToDomain()
	}
	return clientes, nil
}

// Count counts clientes matching the filter
func (r *GormClienteRepository) Count(ctx context.Context, filter practice.ClienteFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClienteModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a cliente
func (r *GormClienteRepository) Save(ctx context.Context, cliente *practice.Cliente) error {
	model := models.ClienteModelFromDomain(cliente)
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormClienteRepository) applyFilter(query *gorm.DB, filter practice.ClienteFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("nombre LIKE ? OR documento_valor LIKE ?", pattern, pattern)
	}
	if filter.Activo != nil {
		query = query.Where("activo = ?", *filter.Activo)
	}
	return query
}
