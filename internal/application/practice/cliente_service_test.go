package practice

import (
	"context"
	"testing"
	"time"

	"github.com/estudio/backend/internal/domain/practice"
	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClienteRepo struct {
	items map[uuid.UUID]*practice.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{items: make(map[uuid.UUID]*practice.Cliente)}
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*practice.Cliente, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) FindByDocumento(_ context.Context, tipo practice.DocumentoTipo, valor string) (*practice.Cliente, error) {
	for _, c := range r.items {
		if c.DocumentoTipo == tipo && c.DocumentoValor == valor {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubClienteRepo) FindAll(_ context.Context, _ practice.ClienteFilter) ([]practice.Cliente, error) {
	out := make([]practice.Cliente, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClienteRepo) Count(_ context.Context, _ practice.ClienteFilter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *stubClienteRepo) Save(_ context.Context, cliente *practice.Cliente) error {
	r.items[cliente.ID] = cliente
	return nil
}

type stubExpedienteRepo struct {
	items map[uuid.UUID]*practice.Expediente
}

func newStubExpedienteRepo() *stubExpedienteRepo {
	return &stubExpedienteRepo{items: make(map[uuid.UUID]*practice.Expediente)}
}

func (r *stubExpedienteRepo) FindByID(_ context.Context, id uuid.UUID) (*practice.Expediente, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

func (r *stubExpedienteRepo) FindAll(_ context.Context, _ practice.ExpedienteFilter) ([]practice.Expediente, error) {
	out := make([]practice.Expediente, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubExpedienteRepo) Count(_ context.Context, _ practice.ExpedienteFilter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *stubExpedienteRepo) Save(_ context.Context, expediente *practice.Expediente) error {
	r.items[expediente.ID] = expediente
	return nil
}

type stubEventoRepo struct {
	items map[uuid.UUID]*practice.Evento
}

func newStubEventoRepo() *stubEventoRepo {
	return &stubEventoRepo{items: make(map[uuid.UUID]*practice.Evento)}
}

func (r *stubEventoRepo) FindByID(_ context.Context, id uuid.UUID) (*practice.Evento, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

func (r *stubEventoRepo) FindAll(_ context.Context, filter practice.EventoFilter) ([]practice.Evento, error) {
	var out []practice.Evento
	for _, e := range r.items {
		if filter.Pendientes && e.Cumplido {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubEventoRepo) Save(_ context.Context, evento *practice.Evento) error {
	r.items[evento.ID] = evento
	return nil
}

func (r *stubEventoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func TestClienteServiceCreate(t *testing.T) {
	repo := newStubClienteRepo()
	svc := NewClienteService(repo, nil, zap.NewNop())

	cmd := CreateClienteCommand{
		Nombre:         "Pérez, Juan",
		DocumentoTipo:  practice.DocumentoDNI,
		DocumentoValor: "30123456",
		Email:          "juan@example.com",
	}

	cliente, err := svc.CreateCliente(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "juan@example.com", cliente.Email)

	// Same document again is rejected.
	_, err = svc.CreateCliente(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestClienteServiceUpdate(t *testing.T) {
	repo := newStubClienteRepo()
	svc := NewClienteService(repo, nil, zap.NewNop())

	cliente, err := svc.CreateCliente(context.Background(), CreateClienteCommand{
		Nombre:         "Pérez, Juan",
		DocumentoTipo:  practice.DocumentoDNI,
		DocumentoValor: "30123456",
	})
	require.NoError(t, err)

	nuevoNombre := "Pérez Aguirre, Juan"
	nuevoTel := "2214567890"
	updated, err := svc.UpdateCliente(context.Background(), UpdateClienteCommand{
		ClienteID: cliente.ID,
		Nombre:    &nuevoNombre,
		Telefono:  &nuevoTel,
	})
	require.NoError(t, err)
	assert.Equal(t, nuevoNombre, updated.Nombre)
	assert.Equal(t, nuevoTel, updated.Telefono)
}

func TestExpedienteServiceCreate(t *testing.T) {
	clientes := newStubClienteRepo()
	expedientes := newStubExpedienteRepo()
	eventos := newStubEventoRepo()
	svc := NewExpedienteService(expedientes, eventos, clientes, nil, zap.NewNop())

	cliente, err := practice.NewCliente("Pérez, Juan", practice.DocumentoDNI, "30123456")
	require.NoError(t, err)
	require.NoError(t, clientes.Save(context.Background(), cliente))

	t.Run("valid", func(t *testing.T) {
		e, err := svc.CreateExpediente(context.Background(), CreateExpedienteCommand{
			ClienteID: cliente.ID,
			Caratula:  "Pérez c/ López s/ daños",
		})
		require.NoError(t, err)
		assert.Equal(t, practice.ExpedienteEnTramite, e.Estado)
	})

	t.Run("unknown cliente", func(t *testing.T) {
		_, err := svc.CreateExpediente(context.Background(), CreateExpedienteCommand{
			ClienteID: uuid.New(),
			Caratula:  "x",
		})
		assert.Error(t, err)
	})

	t.Run("inactive cliente", func(t *testing.T) {
		require.NoError(t, cliente.Deactivate())
		_, err := svc.CreateExpediente(context.Background(), CreateExpedienteCommand{
			ClienteID: cliente.ID,
			Caratula:  "x",
		})
		assert.Error(t, err)
	})
}

func TestExpedienteServiceEventos(t *testing.T) {
	clientes := newStubClienteRepo()
	expedientes := newStubExpedienteRepo()
	eventos := newStubEventoRepo()
	svc := NewExpedienteService(expedientes, eventos, clientes, nil, zap.NewNop())

	cliente, err := practice.NewCliente("Pérez, Juan", practice.DocumentoDNI, "30123456")
	require.NoError(t, err)
	require.NoError(t, clientes.Save(context.Background(), cliente))
	expediente, err := svc.CreateExpediente(context.Background(), CreateExpedienteCommand{
		ClienteID: cliente.ID,
		Caratula:  "Pérez c/ López s/ daños",
	})
	require.NoError(t, err)

	evento, err := svc.CreateEvento(context.Background(), CreateEventoCommand{
		ExpedienteID: expediente.ID,
		Tipo:         practice.EventoAudiencia,
		Titulo:       "Audiencia preliminar",
		Fecha:        time.Now().AddDate(0, 0, 10),
	})
	require.NoError(t, err)

	pending, err := svc.ListEventos(context.Background(), practice.EventoFilter{Pendientes: true})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = svc.MarkEventoCumplido(context.Background(), evento.ID)
	require.NoError(t, err)

	pending, err = svc.ListEventos(context.Background(), practice.EventoFilter{Pendientes: true})
	require.NoError(t, err)
	assert.Empty(t, pending)
}
