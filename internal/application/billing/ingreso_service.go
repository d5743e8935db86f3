package billing

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/estudio/backend/internal/domain/billing"
	"github.com/estudio/backend/internal/domain/shared"
	"github.com/estudio/backend/internal/infrastructure/lock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxConflictRetries = 3

// CreateIngresoCommand creates a payment record, optionally allocating parts
// of it to cuotas in the same operation.
type CreateIngresoCommand struct {
	ClienteID    uuid.UUID
	ExpedienteID *uuid.UUID
	Fecha        time.Time
	Concepto     string
	Montos       billing.MonetaryFields
	Aplicaciones []billing.CuotaApplication
}

// ReconcileIngresoCommand re-matches an existing ingreso against the given
// cuotas, in the order given.
type ReconcileIngresoCommand struct {
	IngresoID             uuid.UUID
	Montos                *billing.MonetaryFields
	SelectedCuotaIDs      []uuid.UUID
	ForceReaplicarParcial bool
	ConfirmarAjuste       bool
}

// IngresoService orchestrates payment operations: serialization through the
// keyed lock manager, atomicity through the transaction scope, and event
// publication after commit. Conflicting concurrent edits surface as
// ConcurrentModification, the only error the service retries.
type IngresoService struct {
	scope       TransactionScope
	ingresos    billing.IngresoRepository
	allocations billing.AllocationRepository
	locks       *lock.Manager
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewIngresoService creates an IngresoService. The ingresos and allocations
// repositories are used for reads outside transactions; writes always go
// through the scope.
func NewIngresoService(
	scope TransactionScope,
	ingresos billing.IngresoRepository,
	allocations billing.AllocationRepository,
	locks *lock.Manager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *IngresoService {
	return &IngresoService{
		scope:       scope,
		ingresos:    ingresos,
		allocations: allocations,
		locks:       locks,
		publisher:   publisher,
		logger:      logger,
	}
}

func ingresoKey(id uuid.UUID) string { return "ingreso:" + id.String() }
func cuotaKey(id uuid.UUID) string   { return "cuota:" + id.String() }

// CreateIngreso registers a new payment and, when aplicaciones are given,
// applies them to cuotas atomically with the creation.
func (s *IngresoService) CreateIngreso(ctx context.Context, cmd CreateIngresoCommand) (*billing.ReconcileResult, error) {
	ingreso, err := billing.NewIngreso(cmd.ClienteID, cmd.ExpedienteID, cmd.Fecha, cmd.Concepto, cmd.Montos)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(cmd.Aplicaciones))
	for _, app := range cmd.Aplicaciones {
		keys = append(keys, cuotaKey(app.CuotaID))
	}
	release, err := s.acquire(ctx, keys)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *billing.ReconcileResult
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Ingresos().Save(ctx, ingreso); err != nil {
			return err
		}
		if len(cmd.Aplicaciones) == 0 {
			result = &billing.ReconcileResult{Ingreso: ingreso, Remanente: ingreso.Remanente}
			return nil
		}
		engine := billing.NewReconciliationEngine(repos.Ingresos(), repos.Cuotas(), repos.Allocations())
		var engineErr error
		result, engineErr = engine.ApplyInitial(ctx, ingreso.ID, cmd.Aplicaciones)
		return engineErr
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, result.Events)
	s.logger.Info("ingreso created",
		zap.String("ingreso_id", ingreso.ID.String()),
		zap.String("cliente_id", cmd.ClienteID.String()),
		zap.Int("aplicaciones", len(cmd.Aplicaciones)))
	return result, nil
}

// Reconcile runs the reconciliation engine for an ingreso, retrying on
// concurrent-modification conflicts.
func (s *IngresoService) Reconcile(ctx context.Context, cmd ReconcileIngresoCommand) (*billing.ReconcileResult, error) {
	var result *billing.ReconcileResult
	operation := func() error {
		var err error
		result, err = s.reconcileOnce(ctx, cmd)
		if err != nil {
			var conflict *billing.ConcurrentModificationError
			if errors.As(err, &conflict) {
				s.logger.Warn("reconciliation conflict, retrying",
					zap.String("ingreso_id", cmd.IngresoID.String()))
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxConflictRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	s.publish(ctx, result.Events)
	s.logger.Info("ingreso reconciled",
		zap.String("ingreso_id", cmd.IngresoID.String()),
		zap.Int("allocations", len(result.Allocations)),
		zap.Int("changed_cuotas", len(result.ChangedCuotas)),
		zap.Strings("warnings", result.Warnings))
	return result, nil
}

func (s *IngresoService) reconcileOnce(ctx context.Context, cmd ReconcileIngresoCommand) (*billing.ReconcileResult, error) {
	releaseIngreso, err := s.acquire(ctx, []string{ingresoKey(cmd.IngresoID)})
	if err != nil {
		return nil, err
	}
	defer releaseIngreso()

	// The affected cuota set is the selection plus everything currently
	// allocated (deselected cuotas get voids and balance refreshes too).
	current, err := s.allocations.FindActiveByIngreso(ctx, cmd.IngresoID)
	if err != nil {
		return nil, err
	}
	keySet := make(map[string]bool)
	for _, id := range cmd.SelectedCuotaIDs {
		keySet[cuotaKey(id)] = true
	}
	for _, alloc := range current {
		keySet[cuotaKey(alloc.CuotaID)] = true
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}

	releaseCuotas, err := s.acquire(ctx, keys)
	if err != nil {
		return nil, err
	}
	defer releaseCuotas()

	var result *billing.ReconcileResult
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		engine := billing.NewReconciliationEngine(repos.Ingresos(), repos.Cuotas(), repos.Allocations())
		var engineErr error
		result, engineErr = engine.Reconcile(ctx, billing.ReconcileRequest{
			IngresoID:             cmd.IngresoID,
			UpdatedMontos:         cmd.Montos,
			SelectedCuotaIDs:      cmd.SelectedCuotaIDs,
			ForceReaplicarParcial: cmd.ForceReaplicarParcial,
			ConfirmarAjuste:       cmd.ConfirmarAjuste,
		})
		return engineErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AnularIngreso voids a payment: all its allocations are voided through the
// engine and the ingreso is marked anulado, atomically.
func (s *IngresoService) AnularIngreso(ctx context.Context, ingresoID uuid.UUID) (*billing.ReconcileResult, error) {
	release, err := s.acquire(ctx, []string{ingresoKey(ingresoID)})
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.allocations.FindActiveByIngreso(ctx, ingresoID)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(current))
	for _, alloc := range current {
		keys = append(keys, cuotaKey(alloc.CuotaID))
	}
	releaseCuotas, err := s.acquire(ctx, keys)
	if err != nil {
		return nil, err
	}
	defer releaseCuotas()

	var result *billing.ReconcileResult
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		engine := billing.NewReconciliationEngine(repos.Ingresos(), repos.Cuotas(), repos.Allocations())
		var engineErr error
		result, engineErr = engine.VoidAll(ctx, ingresoID, billing.VoidReasonAnulacion)
		if engineErr != nil {
			return engineErr
		}
		if err := result.Ingreso.Anular(); err != nil {
			return err
		}
		return repos.Ingresos().Save(ctx, result.Ingreso)
	})
	if err != nil {
		return nil, err
	}

	events := append(result.Events, result.Ingreso.GetDomainEvents()...)
	result.Ingreso.ClearDomainEvents()
	s.publish(ctx, events)
	s.logger.Info("ingreso anulado", zap.String("ingreso_id", ingresoID.String()))
	return result, nil
}

// GetIngreso returns an ingreso with its allocation history
func (s *IngresoService) GetIngreso(ctx context.Context, id uuid.UUID) (*billing.Ingreso, []billing.Allocation, error) {
	ingreso, err := s.ingresos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, &billing.IngresoNotFoundError{IngresoID: id}
		}
		return nil, nil, err
	}
	allocations, err := s.allocations.FindByIngreso(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return ingreso, allocations, nil
}

// ListIngresos returns a page of ingresos matching the filter
func (s *IngresoService) ListIngresos(ctx context.Context, filter billing.IngresoFilter) (*shared.Paginated[billing.Ingreso], error) {
	items, err := s.ingresos.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ingresos.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// acquire enters the keyed sections, translating lock timeouts into the
// retryable conflict error.
func (s *IngresoService) acquire(ctx context.Context, keys []string) (func(), error) {
	release, err := s.locks.Acquire(ctx, keys...)
	if err != nil {
		if errors.Is(err, lock.ErrAcquireTimeout) {
			return nil, &billing.ConcurrentModificationError{Resource: "ingreso", ID: uuid.Nil}
		}
		return nil, err
	}
	return release, nil
}

func (s *IngresoService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		// Events are best-effort notifications; the commit already happened.
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
