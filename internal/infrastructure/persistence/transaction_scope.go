package persistence

import (
	"context"

	"gorm.io/gorm"

	billingapp "github.com/estudio/backend/internal/application/billing"
	"github.com/estudio/backend/internal/domain/billing"
)

// GormTransactionScope implements the billing transaction scope over a
// GORM transaction. Every repository handed to the callback shares the
// same *gorm.DB transaction, so reconciliation voids, creates and
// balance refreshes commit or roll back as one unit.
type GormTransactionScope struct {
	db *gorm.DB
}

var _ billingapp.TransactionScope = (*GormTransactionScope)(nil)

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos billingapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

var _ billingapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

func (r *gormTransactionalRepositories) Ingresos() billing.IngresoRepository {
	return NewGormIngresoRepository(r.tx)
}

func (r *gormTransactionalRepositories) Cuotas() billing.CuotaRepository {
	return NewGormCuotaRepository(r.tx)
}

func (r *gormTransactionalRepositories) Planes() billing.PlanDePagoRepository {
	return NewGormPlanDePagoRepository(r.tx)
}

func (r *gormTransactionalRepositories) Allocations() billing.AllocationRepository {
	return NewGormAllocationRepository(r.tx)
}
