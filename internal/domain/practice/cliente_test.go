package practice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCliente(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c, err := NewCliente("Pérez, Juan", DocumentoDNI, "30123456")
		require.NoError(t, err)
		assert.True(t, c.Activo)
		assert.Equal(t, "Pérez, Juan", c.Nombre)
		require.Len(t, c.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeClienteCreated, c.GetDomainEvents()[0].EventType())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		c, err := NewCliente("  García, Ana  ", DocumentoCUIT, " 20301234567 ")
		require.NoError(t, err)
		assert.Equal(t, "García, Ana", c.Nombre)
		assert.Equal(t, "20301234567", c.DocumentoValor)
	})

	t.Run("rejects empty nombre", func(t *testing.T) {
		_, err := NewCliente("   ", DocumentoDNI, "30123456")
		assert.Error(t, err)
	})

	t.Run("rejects unknown document type", func(t *testing.T) {
		_, err := NewCliente("Pérez", DocumentoTipo("PASAPORTE"), "30123456")
		assert.Error(t, err)
	})

	t.Run("rejects malformed document", func(t *testing.T) {
		for _, doc := range []string{"", "abc", "123", "123456789012"} {
			_, err := NewCliente("Pérez", DocumentoDNI, doc)
			assert.Error(t, err, doc)
		}
	})
}

func TestClienteLifecycle(t *testing.T) {
	c, err := NewCliente("Pérez, Juan", DocumentoDNI, "30123456")
	require.NoError(t, err)

	require.NoError(t, c.Deactivate())
	assert.False(t, c.Activo)
	assert.Error(t, c.Deactivate())

	require.NoError(t, c.Activate())
	assert.True(t, c.Activo)
	assert.Error(t, c.Activate())
}

func TestClienteUpdateContacto(t *testing.T) {
	c, err := NewCliente("Pérez, Juan", DocumentoDNI, "30123456")
	require.NoError(t, err)
	before := c.Version

	c.UpdateContacto(" juan@example.com ", "2214567890", "Calle 7 n° 1234, La Plata")
	assert.Equal(t, "juan@example.com", c.Email)
	assert.Equal(t, before+1, c.Version)
}
