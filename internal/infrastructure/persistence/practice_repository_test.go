package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estudio/backend/internal/domain/practice"
	"github.com/estudio/backend/internal/domain/shared"
)

func TestGormClienteRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormClienteRepository(db)

	mkCliente := func(t *testing.T, nombre, documento string) *practice.Cliente {
		t.Helper()
		cliente, err := practice.NewCliente(nombre, practice.DocumentoDNI, documento)
		require.NoError(t, err)
		require.NoError(t, repo.Save(t.Context(), cliente))
		return cliente
	}

	garcia := mkCliente(t, "García, María", "28111222")
	perez := mkCliente(t, "Pérez, Juan", "30333444")

	t.Run("find by documento", func(t *testing.T) {
		found, err := repo.FindByDocumento(t.Context(), practice.DocumentoDNI, "28111222")
		require.NoError(t, err)
		assert.Equal(t, garcia.ID, found.ID)

		_, err = repo.FindByDocumento(t.Context(), practice.DocumentoDNI, "99999999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("search matches nombre", func(t *testing.T) {
		found, err := repo.FindAll(t.Context(), practice.ClienteFilter{Search: "Pérez"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, perez.ID, found[0].ID)
	})

	t.Run("search matches documento", func(t *testing.T) {
		found, err := repo.FindAll(t.Context(), practice.ClienteFilter{Search: "28111"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, garcia.ID, found[0].ID)
	})

	t.Run("filter by activo", func(t *testing.T) {
		require.NoError(t, perez.Deactivate())
		require.NoError(t, repo.Save(t.Context(), perez))

		activo := true
		found, err := repo.FindAll(t.Context(), practice.ClienteFilter{Activo: &activo})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, garcia.ID, found[0].ID)

		inactivo := false
		count, err := repo.Count(t.Context(), practice.ClienteFilter{Activo: &inactivo})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("ordered by nombre", func(t *testing.T) {
		found, err := repo.FindAll(t.Context(), practice.ClienteFilter{})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "García, María", found[0].Nombre)
		assert.Equal(t, "Pérez, Juan", found[1].Nombre)
	})

	t.Run("contact fields round trip", func(t *testing.T) {
		garcia.UpdateContacto("maria@example.com", "+54 11 5555-1234", "Av. Corrientes 1234")
		require.NoError(t, repo.Save(t.Context(), garcia))

		found, err := repo.FindByID(t.Context(), garcia.ID)
		require.NoError(t, err)
		assert.Equal(t, "maria@example.com", found.Email)
		assert.Equal(t, "+54 11 5555-1234", found.Telefono)
	})
}

func TestGormExpedienteRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormExpedienteRepository(db)
	clienteID := uuid.New()

	mkExpediente := func(t *testing.T, cliente uuid.UUID, caratula, numero string) *practice.Expediente {
		t.Helper()
		exp, err := practice.NewExpediente(cliente, caratula, numero, "Civil", "Juzgado Civil 12")
		require.NoError(t, err)
		require.NoError(t, repo.Save(t.Context(), exp))
		return exp
	}

	daños := mkExpediente(t, clienteID, "García c/ Empresa SA s/ daños", "12345/2025")
	sucesion := mkExpediente(t, clienteID, "Sucesión López", "67890/2024")
	mkExpediente(t, uuid.New(), "Otro c/ Alguien", "11111/2025")

	t.Run("filter by cliente", func(t *testing.T) {
		found, err := repo.FindAll(t.Context(), practice.ExpedienteFilter{ClienteID: &clienteID})
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("search matches caratula and numero", func(t *testing.T) {
		found, err := repo.FindAll(t.Context(), practice.ExpedienteFilter{Search: "daños"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, daños.ID, found[0].ID)

		found, err = repo.FindAll(t.Context(), practice.ExpedienteFilter{Search: "67890"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, sucesion.ID, found[0].ID)
	})

	t.Run("filter by estado", func(t *testing.T) {
		require.NoError(t, sucesion.Archive())
		require.NoError(t, repo.Save(t.Context(), sucesion))

		estado := practice.ExpedienteArchivado
		found, err := repo.FindAll(t.Context(), practice.ExpedienteFilter{Estado: &estado})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, sucesion.ID, found[0].ID)
	})

	t.Run("count", func(t *testing.T) {
		count, err := repo.Count(t.Context(), practice.ExpedienteFilter{ClienteID: &clienteID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestGormEventoRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEventoRepository(db)
	expedienteID := uuid.New()

	mkEvento := func(t *testing.T, titulo string, fecha time.Time) *practice.Evento {
		t.Helper()
		evento, err := practice.NewEvento(expedienteID, practice.EventoAudiencia, titulo, fecha)
		require.NoError(t, err)
		require.NoError(t, repo.Save(t.Context(), evento))
		return evento
	}

	early := mkEvento(t, "Audiencia preliminar", time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC))
	late := mkEvento(t, "Audiencia de vista", time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC))

	t.Run("ordered by fecha", func(t *testing.T) {
		found, err := repo.FindAll(t.Context(), practice.EventoFilter{ExpedienteID: &expedienteID})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, early.ID, found[0].ID)
		assert.Equal(t, late.ID, found[1].ID)
	})

	t.Run("filter by date range", func(t *testing.T) {
		desde := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		found, err := repo.FindAll(t.Context(), practice.EventoFilter{Desde: &desde})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, late.ID, found[0].ID)
	})

	t.Run("pendientes excludes cumplidos", func(t *testing.T) {
		early.MarkCumplido()
		require.NoError(t, repo.Save(t.Context(), early))

		found, err := repo.FindAll(t.Context(), practice.EventoFilter{Pendientes: true})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, late.ID, found[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(t.Context(), late.ID))
		_, err := repo.FindByID(t.Context(), late.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		err = repo.Delete(t.Context(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormAdjuntoRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAdjuntoRepository(db)
	expedienteID := uuid.New()

	adjunto, err := practice.NewAdjunto(expedienteID, "demanda.pdf", "application/pdf", 128_000)
	require.NoError(t, err)
	require.NoError(t, repo.Save(t.Context(), adjunto))

	t.Run("find by expediente", func(t *testing.T) {
		found, err := repo.FindByExpediente(t.Context(), expedienteID)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "demanda.pdf", found[0].Nombre)
		assert.Equal(t, adjunto.StorageKey, found[0].StorageKey)
	})

	t.Run("delete removes metadata", func(t *testing.T) {
		require.NoError(t, repo.Delete(t.Context(), adjunto.ID))
		_, err := repo.FindByID(t.Context(), adjunto.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		err = repo.Delete(t.Context(), adjunto.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
