package billing

import (
	"context"

	"github.com/estudio/backend/internal/domain/billing"
)

// TransactionScope provides transactional access to billing repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the billing repositories
// within a transaction. All repositories returned share the same underlying
// database transaction, so a reconciliation engine built over them commits
// its voids, creates and balance refreshes as one unit.
type TransactionalRepositories interface {
	Ingresos() billing.IngresoRepository
	Cuotas() billing.CuotaRepository
	Planes() billing.PlanDePagoRepository
	Allocations() billing.AllocationRepository
}

// NoOpTransactionScope runs functions without a real transaction. Used in
// tests over in-memory repositories.
type NoOpTransactionScope struct {
	ingresos    billing.IngresoRepository
	cuotas      billing.CuotaRepository
	planes      billing.PlanDePagoRepository
	allocations billing.AllocationRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given
// repositories.
func NewNoOpTransactionScope(
	ingresos billing.IngresoRepository,
	cuotas billing.CuotaRepository,
	planes billing.PlanDePagoRepository,
	allocations billing.AllocationRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		ingresos:    ingresos,
		cuotas:      cuotas,
		planes:      planes,
		allocations: allocations,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Ingresos returns the ingreso repository
func (s *NoOpTransactionScope) Ingresos() billing.IngresoRepository { return s.ingresos }

// Cuotas returns the cuota repository
func (s *NoOpTransactionScope) Cuotas() billing.CuotaRepository { return s.cuotas }

// Planes returns the payment plan repository
func (s *NoOpTransactionScope) Planes() billing.PlanDePagoRepository { return s.planes }

// Allocations returns the allocation repository
func (s *NoOpTransactionScope) Allocations() billing.AllocationRepository { return s.allocations }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
