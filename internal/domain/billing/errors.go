package billing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Error codes for the billing bounded context. Handlers map these to HTTP
// statuses; everything except CONCURRENT_MODIFICATION is a business-rule
// outcome the caller must resolve, never retried automatically.
const (
	ErrCodeInvalidAmount          = "INVALID_AMOUNT"
	ErrCodeOverAllocation         = "OVER_ALLOCATION"
	ErrCodeInsufficientFunds      = "INSUFFICIENT_FUNDS_FOR_FULL_PAYMENT"
	ErrCodeAjusteRequiresConfirm  = "AJUSTE_REQUIERE_CONFIRMACION"
	ErrCodeCuotaNotFound          = "CUOTA_NOT_FOUND"
	ErrCodeIngresoNotFound        = "INGRESO_NOT_FOUND"
	ErrCodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

// InvalidAmountError reports a negative or otherwise unusable monetary input.
type InvalidAmountError struct {
	Field string
	Value decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount for %s: %s", e.Field, e.Value.String())
}

// Code returns the machine-readable error code
func (e *InvalidAmountError) Code() string { return ErrCodeInvalidAmount }

// OverAllocationError reports an allocation that would push the sum of active
// allocations for a cuota above its total plus the rounding tolerance.
type OverAllocationError struct {
	CuotaID   uuid.UUID
	Total     decimal.Decimal
	Applied   decimal.Decimal
	Attempted decimal.Decimal
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf("allocation of %s to cuota %s exceeds total %s (already applied %s)",
		e.Attempted.StringFixed(2), e.CuotaID, e.Total.StringFixed(2), e.Applied.StringFixed(2))
}

// Code returns the machine-readable error code
func (e *OverAllocationError) Code() string { return ErrCodeOverAllocation }

// InsufficientFundsError reports the first cuota in priority order that cannot
// be paid in full with the remaining available funds.
type InsufficientFundsError struct {
	IngresoID uuid.UUID
	CuotaID   uuid.UUID
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("ingreso %s cannot fully fund cuota %s: requires %s, only %s available (shortfall %s)",
		e.IngresoID, e.CuotaID, e.Required.StringFixed(2), e.Available.StringFixed(2), e.Shortfall().StringFixed(2))
}

// Code returns the machine-readable error code
func (e *InsufficientFundsError) Code() string { return ErrCodeInsufficientFunds }

// Shortfall returns the missing amount for the first unsatisfiable cuota
func (e *InsufficientFundsError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Available)
}

// AjusteRequiereConfirmacionError reports a downward adjustment that would
// shrink existing allocations and therefore needs explicit confirmation.
type AjusteRequiereConfirmacionError struct {
	IngresoID      uuid.UUID
	AffectedCuotas []uuid.UUID
	Shortfall      decimal.Decimal
}

func (e *AjusteRequiereConfirmacionError) Error() string {
	ids := make([]string, len(e.AffectedCuotas))
	for i, id := range e.AffectedCuotas {
		ids[i] = id.String()
	}
	return fmt.Sprintf("reducing ingreso %s leaves a shortfall of %s over cuotas [%s]; confirmation required",
		e.IngresoID, e.Shortfall.StringFixed(2), strings.Join(ids, ", "))
}

// Code returns the machine-readable error code
func (e *AjusteRequiereConfirmacionError) Code() string { return ErrCodeAjusteRequiresConfirm }

// CuotaNotFoundError reports a reference to a cuota that does not exist.
type CuotaNotFoundError struct {
	CuotaID uuid.UUID
}

func (e *CuotaNotFoundError) Error() string {
	return fmt.Sprintf("cuota %s not found", e.CuotaID)
}

// Code returns the machine-readable error code
func (e *CuotaNotFoundError) Code() string { return ErrCodeCuotaNotFound }

// IngresoNotFoundError reports a reference to an ingreso that does not exist.
type IngresoNotFoundError struct {
	IngresoID uuid.UUID
}

func (e *IngresoNotFoundError) Error() string {
	return fmt.Sprintf("ingreso %s not found", e.IngresoID)
}

// Code returns the machine-readable error code
func (e *IngresoNotFoundError) Code() string { return ErrCodeIngresoNotFound }

// ConcurrentModificationError reports transient lock contention. This is the
// only billing error that is safe to retry automatically with backoff.
type ConcurrentModificationError struct {
	Resource string
	ID       uuid.UUID
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("concurrent modification of %s %s", e.Resource, e.ID)
}

// Code returns the machine-readable error code
func (e *ConcurrentModificationError) Code() string { return ErrCodeConcurrentModification }

// CodedError is implemented by all billing errors so transport layers can map
// them without enumerating concrete types.
type CodedError interface {
	error
	Code() string
}
