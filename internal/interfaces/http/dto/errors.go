package dto

import (
	"errors"
	"net/http"
	"strings"

	"github.com/estudio/backend/internal/domain/billing"
	"github.com/estudio/backend/internal/domain/shared"
)

// Transport-level error codes. Domain errors carry their own codes and are
// mapped through ErrorCodeHTTPStatus below.
const (
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeNotFound     = "ERR_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps domain and transport error codes to HTTP statuses.
// Business-rule refusals the caller can resolve are 422; contention and
// duplicates are 409; references to missing records are 404.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,

	// shared.DomainError codes
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"INVALID_INPUT":        http.StatusBadRequest,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"UNAUTHORIZED":         http.StatusUnauthorized,
	"FORBIDDEN":            http.StatusForbidden,
	"INVALID_STATE":        http.StatusUnprocessableEntity,

	// billing error codes
	billing.ErrCodeInvalidAmount:          http.StatusBadRequest,
	billing.ErrCodeOverAllocation:         http.StatusConflict,
	billing.ErrCodeInsufficientFunds:      http.StatusUnprocessableEntity,
	billing.ErrCodeAjusteRequiresConfirm:  http.StatusUnprocessableEntity,
	billing.ErrCodeCuotaNotFound:          http.StatusNotFound,
	billing.ErrCodeIngresoNotFound:        http.StatusNotFound,
	billing.ErrCodeConcurrentModification: http.StatusConflict,
}

// GetHTTPStatus resolves the HTTP status for an error code. Codes not listed
// explicitly fall back on naming conventions shared by all domain packages:
// INVALID_* rejects bad input, *_NOT_FOUND references a missing record and
// ALREADY_* is a duplicate or state conflict. Anything else is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "ALREADY_"):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// MapError extracts a machine-readable code and message from a domain error.
// Unknown errors map to ERR_INTERNAL with a generic message so internals are
// not leaked to clients.
func MapError(err error) (code, message string) {
	var coded billing.CodedError
	if errors.As(err, &coded) {
		return coded.Code(), coded.Error()
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code, domainErr.Message
	}

	return ErrCodeInternal, "Internal server error"
}
