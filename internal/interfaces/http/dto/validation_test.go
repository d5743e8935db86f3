package dto

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBindingError(t *testing.T) {
	type payload struct {
		ClienteID string `validate:"required,uuid"`
		Estado    string `validate:"omitempty,oneof=EN_TRAMITE ARCHIVADO"`
		Cuotas    int    `validate:"gt=0"`
	}

	v := validator.New()

	t.Run("per-field messages", func(t *testing.T) {
		err := v.Struct(payload{Estado: "CERRADO", Cuotas: 0})
		require.Error(t, err)

		msg := FormatBindingError(err)
		assert.Contains(t, msg, "ClienteID is required")
		assert.Contains(t, msg, "Estado must be one of: EN_TRAMITE ARCHIVADO")
		assert.Contains(t, msg, "Cuotas must be greater than 0")
	})

	t.Run("non-validator errors pass through", func(t *testing.T) {
		err := errors.New("invalid character '}' looking for beginning of value")
		assert.Equal(t, err.Error(), FormatBindingError(err))
	})
}
