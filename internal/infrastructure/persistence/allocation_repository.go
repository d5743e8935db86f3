package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/estudio/backend/internal/domain/billing"
	"github.com/estudio/backend/internal/domain/shared"
	"github.com/estudio/backend/internal/infrastructure/persistence/models"
)

// GormAllocationRepository implements AllocationRepository using GORM.
// Allocations are append-only: rows are inserted and updated to VOIDED
// but never deleted.
type GormAllocationRepository struct {
	db *gorm.DB
}

var _ billing.AllocationRepository = (*GormAllocationRepository)(nil)

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// FindByID finds an allocation by its ID
func (r *GormAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Allocation, error) {
	var model models.AllocationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByCuota returns active allocations for a cuota ordered by
// creation time ascending.
func (r *GormAllocationRepository) FindActiveByCuota(ctx context.Context, cuotaID uuid.UUID) ([]billing.Allocation, error) {
	return r.find(ctx, "cuota_id = ? AND status = ?", cuotaID, billing.AllocationStatusActive)
}

// FindActiveByIngreso returns active allocations funded by an ingreso
func (r *GormAllocationRepository) FindActiveByIngreso(ctx context.Context, ingresoID uuid.UUID) ([]billing.Allocation, error) {
	return r.find(ctx, "ingreso_id = ? AND status = ?", ingresoID, billing.AllocationStatusActive)
}

// FindByIngreso returns all allocations of an ingreso including voided
// rows, for audit.
func (r *GormAllocationRepository) FindByIngreso(ctx context.Context, ingresoID uuid.UUID) ([]billing.Allocation, error) {
	return r.find(ctx, "ingreso_id = ?", ingresoID)
}

// SumActiveByCuota sums the active allocations applied to a cuota
func (r *GormAllocationRepository) SumActiveByCuota(ctx context.Context, cuotaID uuid.UUID) (decimal.Decimal, error) {
	return r.sum(ctx, "cuota_id = ? AND status = ?", cuotaID, billing.AllocationStatusActive)
}

// SumActiveByCuotaExcludingIngreso sums active allocations on a cuota
// funded by other ingresos.
func (r *GormAllocationRepository) SumActiveByCuotaExcludingIngreso(ctx context.Context, cuotaID, ingresoID uuid.UUID) (decimal.Decimal, error) {
	return r.sum(ctx, "cuota_id = ? AND ingreso_id <> ? AND status = ?", cuotaID, ingresoID, billing.AllocationStatusActive)
}

// Save creates or updates an allocation
func (r *GormAllocationRepository) Save(ctx context.Context, allocation *billing.Allocation) error {
	model := models.AllocationModelFromDomain(allocation)
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormAllocationRepository) find(ctx context.Context, conds string, args ...any) ([]billing.Allocation, error) {
	var allocationModels []models.AllocationModel
	if err := r.db.WithContext(ctx).
		Where(conds, args...).
		Order("created_at ASC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}

	allocations := make([]billing.Allocation, len(allocationModels))
	for i, model := range allocationModels {
		allocations[i] = *model.ToDomain()
	}
	return allocations, nil
}

func (r *GormAllocationRepository) sum(ctx context.Context, conds string, args ...any) (decimal.Decimal, error) {
	var total sql.NullString
	if err := r.db.WithContext(ctx).
		Model(&models.AllocationModel{}).
		Where(conds, args...).
		Select("SUM(monto)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(total.String)
}
