package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Void reasons written to the ledger by the engine
const (
	VoidReasonDeseleccion = "cuota deseleccionada en reconciliación"
	VoidReasonAjuste      = "ajuste por reducción del ingreso"
	VoidReasonAnulacion   = "ingreso anulado"
)

// ReconcileRequest describes the desired allocation state for an ingreso.
// SelectedCuotaIDs is in caller priority order and is never reordered by the
// engine: listing overdue cuotas first is how the operator prioritizes them.
type ReconcileRequest struct {
	IngresoID uuid.UUID
	// UpdatedMontos replaces the ingreso's monetary fields when editing;
	// nil keeps the current ones.
	UpdatedMontos         *MonetaryFields
	SelectedCuotaIDs      []uuid.UUID
	ForceReaplicarParcial bool
	ConfirmarAjuste       bool
}

// CuotaApplication is an explicit amount to apply to a cuota, used by the
// initial-allocation mode of the payment create endpoint.
type CuotaApplication struct {
	CuotaID uuid.UUID
	Monto   decimal.Decimal
}

// CuotaStateChange reports a cuota whose status changed during reconciliation
type CuotaStateChange struct {
	CuotaID  uuid.UUID   `json:"cuota_id"`
	Previous CuotaStatus `json:"previous"`
	Current  CuotaStatus `json:"current"`
}

// ReconcileResult is the outcome of a successful reconciliation.
// Events holds the domain events drained from every aggregate the run
// touched; the application layer publishes them after the transaction
// commits.
type ReconcileResult struct {
	Ingreso       *Ingreso             `json:"ingreso"`
	Allocations   []Allocation         `json:"allocations"`
	ChangedCuotas []CuotaStateChange   `json:"changed_cuotas"`
	Remanente     decimal.Decimal      `json:"remanente"`
	Warnings      []string             `json:"warnings"`
	Events        []shared.DomainEvent `json:"-"`
}

// ReconciliationEngine matches an ingreso against cuotas, keeping the
// allocation ledger and cuota balances consistent across creates, edits and
// deletions of the payment record.
//
// The engine computes the full mutation plan from a read-only snapshot before
// touching the ledger, so a business-rule failure leaves no partial state
// behind; callers additionally wrap Reconcile in a database transaction for
// crash safety. Serialization per ingreso and per cuota is the caller's
// responsibility (see the application layer's lock manager).
type ReconciliationEngine struct {
	ingresos IngresoRepository
	cuotas   CuotaRepository
	ledger   *AllocationLedger
	balances *BalanceCalculator
	resolver *CurrencyResolver
}

// NewReconciliationEngine creates an engine over the given repositories.
// Construct it with transaction-scoped repositories to make Reconcile atomic.
func NewReconciliationEngine(ingresos IngresoRepository, cuotas CuotaRepository, allocations AllocationRepository) *ReconciliationEngine {
	ledger := NewAllocationLedger(allocations, cuotas)
	return &ReconciliationEngine{
		ingresos: ingresos,
		cuotas:   cuotas,
		ledger:   ledger,
		balances: NewBalanceCalculator(ledger),
		resolver: NewCurrencyResolver(),
	}
}

// Ledger exposes the engine's allocation ledger for read paths
func (e *ReconciliationEngine) Ledger() *AllocationLedger {
	return e.ledger
}

// Balances exposes the engine's balance calculator for read paths
func (e *ReconciliationEngine) Balances() *BalanceCalculator {
	return e.balances
}

// plannedVoid and plannedApply form the mutation plan computed before any
// ledger write happens.
type plannedVoid struct {
	allocation Allocation
	reason     string
}

type plannedApply struct {
	cuotaID uuid.UUID
	monto   decimal.Decimal
}

// Reconcile processes the desired allocation set for an ingreso.
//
//  1. Allocations to cuotas no longer selected are voided, freeing capacity.
//  2. Allocations to still-selected cuotas are preserved, not recreated.
//  3. If the edited gross amount is below what those preserved allocations
//     already add up to, the reduction must be confirmed; allocations are then
//     shrunk starting from the lowest-priority end of SelectedCuotaIDs.
//  4. Remaining funds are distributed in caller order; a cuota that cannot be
//     fully funded aborts the run unless ForceReaplicarParcial is set, in
//     which case it receives what is left and later cuotas receive nothing.
//  5. Any leftover is retained as the ingreso's unapplied remainder and
//     reported as a warning.
func (e *ReconciliationEngine) Reconcile(ctx context.Context, req ReconcileRequest) (*ReconcileResult, error) {
	ingreso, err := e.loadIngreso(ctx, req.IngresoID)
	if err != nil {
		return nil, err
	}

	gross, err := e.grossAmount(ingreso, req.UpdatedMontos)
	if err != nil {
		return nil, err
	}

	current, err := e.ledger.allocations.FindActiveByIngreso(ctx, req.IngresoID)
	if err != nil {
		return nil, err
	}

	cuotaByID, err := e.loadSelectedCuotas(ctx, req.SelectedCuotaIDs)
	if err != nil {
		return nil, err
	}

	selected := make(map[uuid.UUID]bool, len(req.SelectedCuotaIDs))
	for _, id := range req.SelectedCuotaIDs {
		selected[id] = true
	}

	// Step 1-2: split current allocations into the ones that stay and the
	// ones whose cuota was deselected.
	var voids []plannedVoid
	mine := make(map[uuid.UUID]decimal.Decimal)
	stayingByCuota := make(map[uuid.UUID][]Allocation)
	sumStaying := decimal.Zero
	for _, alloc := range current {
		if selected[alloc.CuotaID] {
			stayingByCuota[alloc.CuotaID] = append(stayingByCuota[alloc.CuotaID], alloc)
			mine[alloc.CuotaID] = mine[alloc.CuotaID].Add(alloc.Monto)
			sumStaying = sumStaying.Add(alloc.Monto)
		} else {
			voids = append(voids, plannedVoid{allocation: alloc, reason: VoidReasonDeseleccion})
		}
	}

	var warnings []string

	// Step 6 (evaluated before distribution): downward adjustment of an
	// already-allocated ingreso.
	shrunk := make(map[uuid.UUID]bool)
	if gross.LessThan(sumStaying.Sub(Tolerance)) {
		shortfall := sumStaying.Sub(gross)
		affected, shrinkVoids := e.planShrink(req.SelectedCuotaIDs, stayingByCuota, mine, shortfall)
		if !req.ConfirmarAjuste {
			return nil, &AjusteRequiereConfirmacionError{
				IngresoID:      req.IngresoID,
				AffectedCuotas: affected,
				Shortfall:      shortfall,
			}
		}
		voids = append(voids, shrinkVoids...)
		names := make([]string, len(affected))
		for i, id := range affected {
			shrunk[id] = true
			names[i] = id.String()
		}
		warnings = append(warnings, fmt.Sprintf(
			"ajuste confirmado: asignaciones reducidas en %s por %s",
			strings.Join(names, ", "), shortfall.StringFixed(2)))

		// The shrink plan updated mine in place; re-derive the preserved sum.
		sumStaying = decimal.Zero
		for _, m := range mine {
			sumStaying = sumStaying.Add(m)
		}
	}

	// Step 3: funds not already committed to preserved allocations.
	available := gross.Sub(sumStaying)
	if available.IsNegative() {
		available = decimal.Zero
	}

	// Step 4: distribute in caller priority order.
	var creates []plannedApply
	for _, cuotaID := range req.SelectedCuotaIDs {
		if shrunk[cuotaID] {
			// Settled at its reduced amount by the confirmed adjustment.
			continue
		}
		cuota := cuotaByID[cuotaID]
		total, err := e.resolver.Resolve(cuota)
		if err != nil {
			return nil, err
		}
		others, err := e.ledger.TotalAppliedExcluding(ctx, cuotaID, req.IngresoID)
		if err != nil {
			return nil, err
		}

		needed := total.Sub(others).Sub(mine[cuotaID])
		if needed.LessThanOrEqual(Tolerance) {
			continue
		}

		if available.GreaterThanOrEqual(needed) {
			creates = append(creates, plannedApply{cuotaID: cuotaID, monto: needed})
			available = available.Sub(needed)
			continue
		}

		if !req.ForceReaplicarParcial {
			return nil, &InsufficientFundsError{
				IngresoID: req.IngresoID,
				CuotaID:   cuotaID,
				Required:  needed,
				Available: available,
			}
		}

		if available.GreaterThan(decimal.Zero) {
			creates = append(creates, plannedApply{cuotaID: cuotaID, monto: available})
			warnings = append(warnings, fmt.Sprintf(
				"cuota %s pagada parcialmente: %s de %s", cuotaID, available.StringFixed(2), needed.StringFixed(2)))
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"cuota %s sin fondos para aplicar: faltan %s", cuotaID, needed.StringFixed(2)))
		}
		available = decimal.Zero
		break
	}

	// Re-created allocations for shrunk cuotas join the creates plan so the
	// apply phase stays uniform: voids first, then creates.
	creates = append(e.shrinkRecreates(req.SelectedCuotaIDs, shrunk, mine), creates...)

	// Step 5: whatever is left stays on the ingreso, never discarded.
	remanente := available
	if remanente.GreaterThan(decimal.Zero) {
		warnings = append(warnings, fmt.Sprintf("remanente sin aplicar: %s", remanente.StringFixed(2)))
	}

	return e.commit(ctx, ingreso, req, gross, voids, creates, remanente, warnings, cuotaByID)
}

// planShrink walks the selected cuotas from the lowest-priority end and plans
// the voids needed to absorb the shortfall. mine is updated in place to the
// post-shrink amounts. Returns the affected cuotas in shrink order.
func (e *ReconciliationEngine) planShrink(
	selectedOrder []uuid.UUID,
	stayingByCuota map[uuid.UUID][]Allocation,
	mine map[uuid.UUID]decimal.Decimal,
	shortfall decimal.Decimal,
) (affected []uuid.UUID, voids []plannedVoid) {
	remaining := shortfall
	for i := len(selectedOrder) - 1; i >= 0 && remaining.GreaterThan(decimal.Zero); i-- {
		cuotaID := selectedOrder[i]
		current := mine[cuotaID]
		if !current.GreaterThan(decimal.Zero) {
			continue
		}

		reduce := remaining
		if reduce.GreaterThan(current) {
			reduce = current
		}

		// Shrinking keeps the audit trail append-only: the old allocations
		// are voided and a single reduced one is recreated.
		for _, alloc := range stayingByCuota[cuotaID] {
			voids = append(voids, plannedVoid{allocation: alloc, reason: VoidReasonAjuste})
		}
		mine[cuotaID] = current.Sub(reduce)

		affected = append(affected, cuotaID)
		remaining = remaining.Sub(reduce)
	}
	return affected, voids
}

// shrinkRecreates returns the reduced allocations to recreate for shrunk
// cuotas, in caller priority order.
func (e *ReconciliationEngine) shrinkRecreates(selectedOrder []uuid.UUID, shrunk map[uuid.UUID]bool, mine map[uuid.UUID]decimal.Decimal) []plannedApply {
	var applies []plannedApply
	for _, cuotaID := range selectedOrder {
		if shrunk[cuotaID] && mine[cuotaID].GreaterThan(decimal.Zero) {
			applies = append(applies, plannedApply{cuotaID: cuotaID, monto: mine[cuotaID]})
		}
	}
	return applies
}

// ApplyInitial applies explicit amounts from a freshly created ingreso to
// cuotas. There are no prior allocations to void; anything beyond the gross
// amount fails on the first unsatisfiable cuota.
func (e *ReconciliationEngine) ApplyInitial(ctx context.Context, ingresoID uuid.UUID, applications []CuotaApplication) (*ReconcileResult, error) {
	ingreso, err := e.loadIngreso(ctx, ingresoID)
	if err != nil {
		return nil, err
	}
	gross, err := e.resolver.Resolve(ingreso)
	if err != nil {
		return nil, err
	}

	available := gross
	var creates []plannedApply
	cuotaByID := make(map[uuid.UUID]*Cuota)
	for _, app := range applications {
		if app.Monto.IsNegative() {
			return nil, &InvalidAmountError{Field: "monto", Value: app.Monto}
		}
		cuota, err := e.cuotas.FindByID(ctx, app.CuotaID)
		if err != nil || cuota == nil {
			return nil, e.asCuotaNotFound(err, app.CuotaID)
		}
		cuotaByID[app.CuotaID] = cuota

		if app.Monto.GreaterThan(available) {
			return nil, &InsufficientFundsError{
				IngresoID: ingresoID,
				CuotaID:   app.CuotaID,
				Required:  app.Monto,
				Available: available,
			}
		}
		creates = append(creates, plannedApply{cuotaID: app.CuotaID, monto: app.Monto})
		available = available.Sub(app.Monto)
	}

	var warnings []string
	if available.GreaterThan(decimal.Zero) && len(applications) > 0 {
		warnings = append(warnings, fmt.Sprintf("remanente sin aplicar: %s", available.StringFixed(2)))
	}

	req := ReconcileRequest{IngresoID: ingresoID}
	return e.commit(ctx, ingreso, req, gross, nil, creates, available, warnings, cuotaByID)
}

// VoidAll voids every active allocation of an ingreso, typically because the
// ingreso itself is being voided. Touched cuotas are rebalanced.
func (e *ReconciliationEngine) VoidAll(ctx context.Context, ingresoID uuid.UUID, reason string) (*ReconcileResult, error) {
	ingreso, err := e.loadIngreso(ctx, ingresoID)
	if err != nil {
		return nil, err
	}

	current, err := e.ledger.allocations.FindActiveByIngreso(ctx, ingresoID)
	if err != nil {
		return nil, err
	}

	voids := make([]plannedVoid, 0, len(current))
	for _, alloc := range current {
		voids = append(voids, plannedVoid{allocation: alloc, reason: reason})
	}

	req := ReconcileRequest{IngresoID: ingresoID}
	return e.commit(ctx, ingreso, req, decimal.Zero, voids, nil, decimal.Zero, nil, nil)
}

// commit executes the mutation plan: voids first so capacity is freed before
// the over-allocation guard sees the creates, then creates in priority order,
// then balance recomputation for every touched cuota.
func (e *ReconciliationEngine) commit(
	ctx context.Context,
	ingreso *Ingreso,
	req ReconcileRequest,
	gross decimal.Decimal,
	voids []plannedVoid,
	creates []plannedApply,
	remanente decimal.Decimal,
	warnings []string,
	cuotaByID map[uuid.UUID]*Cuota,
) (*ReconcileResult, error) {
	touched := make(map[uuid.UUID]bool)

	for _, v := range voids {
		if _, err := e.ledger.Void(ctx, v.allocation.ID, v.reason); err != nil {
			return nil, err
		}
		touched[v.allocation.CuotaID] = true
	}

	allocated := decimal.Zero
	for _, c := range creates {
		if _, err := e.ledger.Apply(ctx, ingreso.ID, c.cuotaID, c.monto); err != nil {
			return nil, err
		}
		touched[c.cuotaID] = true
		allocated = allocated.Add(c.monto)
	}

	dirty := len(voids) > 0 || len(creates) > 0
	if req.UpdatedMontos != nil {
		if err := ingreso.UpdateMontos(*req.UpdatedMontos); err != nil {
			return nil, err
		}
		dirty = true
	}
	if !ingreso.Remanente.Equal(remanente) {
		ingreso.SetRemanente(remanente)
		dirty = true
	}

	// Step 7: recompute balance and status for every touched cuota.
	var changes []CuotaStateChange
	var events []shared.DomainEvent
	for cuotaID := range touched {
		cuota := cuotaByID[cuotaID]
		if cuota == nil {
			loaded, err := e.cuotas.FindByID(ctx, cuotaID)
			if err != nil || loaded == nil {
				return nil, e.asCuotaNotFound(err, cuotaID)
			}
			cuota = loaded
		}
		previous := cuota.Status
		_, changed, err := e.balances.RefreshCuota(ctx, cuota, e.cuotas)
		if err != nil {
			return nil, err
		}
		if changed {
			changes = append(changes, CuotaStateChange{
				CuotaID:  cuotaID,
				Previous: previous,
				Current:  cuota.Status,
			})
		}
		events = append(events, cuota.GetDomainEvents()...)
		cuota.ClearDomainEvents()
	}

	// Re-running an identical request plans no work; saving nothing keeps
	// the operation a true no-op.
	if dirty {
		ingreso.AddDomainEvent(NewIngresoReconciledEvent(ingreso, allocated, len(touched)))
		if err := e.ingresos.Save(ctx, ingreso); err != nil {
			return nil, err
		}
		events = append(events, ingreso.GetDomainEvents()...)
		ingreso.ClearDomainEvents()
	}

	final, err := e.ledger.allocations.FindActiveByIngreso(ctx, ingreso.ID)
	if err != nil {
		return nil, err
	}

	return &ReconcileResult{
		Ingreso:       ingreso,
		Allocations:   final,
		ChangedCuotas: changes,
		Remanente:     remanente,
		Warnings:      warnings,
		Events:        events,
	}, nil
}

func (e *ReconciliationEngine) loadIngreso(ctx context.Context, id uuid.UUID) (*Ingreso, error) {
	ingreso, err := e.ingresos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, &IngresoNotFoundError{IngresoID: id}
		}
		return nil, err
	}
	if ingreso == nil {
		return nil, &IngresoNotFoundError{IngresoID: id}
	}
	return ingreso, nil
}

func (e *ReconciliationEngine) grossAmount(ingreso *Ingreso, updated *MonetaryFields) (decimal.Decimal, error) {
	if updated == nil {
		return e.resolver.Resolve(ingreso)
	}
	probe := &Ingreso{Montos: *updated}
	return e.resolver.Resolve(probe)
}

func (e *ReconciliationEngine) loadSelectedCuotas(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Cuota, error) {
	byID := make(map[uuid.UUID]*Cuota, len(ids))
	for _, id := range ids {
		if _, seen := byID[id]; seen {
			continue
		}
		cuota, err := e.cuotas.FindByID(ctx, id)
		if err != nil || cuota == nil {
			return nil, e.asCuotaNotFound(err, id)
		}
		byID[id] = cuota
	}
	return byID, nil
}

func (e *ReconciliationEngine) asCuotaNotFound(err error, id uuid.UUID) error {
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return &CuotaNotFoundError{CuotaID: id}
}
