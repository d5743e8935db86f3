package practice

import (
	"context"
	"errors"
	"time"

	"github.com/estudio/backend/internal/domain/practice"
	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateExpedienteCommand opens a new case for a cliente
type CreateExpedienteCommand struct {
	ClienteID uuid.UUID
	Caratula  string
	Numero    string
	Fuero     string
	Juzgado   string
}

// CreateEventoCommand adds an agenda entry to an expediente
type CreateEventoCommand struct {
	ExpedienteID uuid.UUID
	Tipo         practice.EventoTipo
	Titulo       string
	Descripcion  string
	Fecha        time.Time
}

// ExpedienteService manages expedientes and their agenda
type ExpedienteService struct {
	expedientes practice.ExpedienteRepository
	eventos     practice.EventoRepository
	clientes    practice.ClienteRepository
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewExpedienteService creates an ExpedienteService
func NewExpedienteService(
	expedientes practice.ExpedienteRepository,
	eventos practice.EventoRepository,
	clientes practice.ClienteRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ExpedienteService {
	return &ExpedienteService{
		expedientes: expedientes,
		eventos:     eventos,
		clientes:    clientes,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateExpediente opens a case. The cliente must exist and be active.
func (s *ExpedienteService) CreateExpediente(ctx context.Context, cmd CreateExpedienteCommand) (*practice.Expediente, error) {
	cliente, err := s.clientes.FindByID(ctx, cmd.ClienteID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CLIENTE_NOT_FOUND", "Cliente does not exist")
		}
		return nil, err
	}
	if !cliente.Activo {
		return nil, shared.NewDomainError("CLIENTE_INACTIVO", "Cannot open expedientes for an inactive cliente")
	}

	expediente, err := practice.NewExpediente(cmd.ClienteID, cmd.Caratula, cmd.Numero, cmd.Fuero, cmd.Juzgado)
	if err != nil {
		return nil, err
	}
	if err := s.expedientes.Save(ctx, expediente); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, expediente.GetDomainEvents()...); err != nil {
			s.logger.Warn("failed to publish expediente events", zap.Error(err))
		}
		expediente.ClearDomainEvents()
	}

	s.logger.Info("expediente created",
		zap.String("expediente_id", expediente.ID.String()),
		zap.String("cliente_id", cmd.ClienteID.String()))
	return expediente, nil
}

// ChangeEstado moves an expediente to a new procedural state
func (s *ExpedienteService) ChangeEstado(ctx context.Context, id uuid.UUID, estado practice.ExpedienteEstado) (*practice.Expediente, error) {
	expediente, err := s.expedientes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := expediente.ChangeEstado(estado); err != nil {
		return nil, err
	}
	if err := s.expedientes.Save(ctx, expediente); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, expediente.GetDomainEvents()...); err != nil {
			s.logger.Warn("failed to publish expediente events", zap.Error(err))
		}
		expediente.ClearDomainEvents()
	}
	return expediente, nil
}

// GetExpediente returns an expediente by id
func (s *ExpedienteService) GetExpediente(ctx context.Context, id uuid.UUID) (*practice.Expediente, error) {
	return s.expedientes.FindByID(ctx, id)
}

// ListExpedientes returns a page of expedientes matching the filter
func (s *ExpedienteService) ListExpedientes(ctx context.Context, filter practice.ExpedienteFilter) (*shared.Paginated[practice.Expediente], error) {
	items, err := s.expedientes.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.expedientes.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// CreateEvento adds an agenda entry to an existing expediente
func (s *ExpedienteService) CreateEvento(ctx context.Context, cmd CreateEventoCommand) (*practice.Evento, error) {
	if _, err := s.expedientes.FindByID(ctx, cmd.ExpedienteID); err != nil {
		return nil, err
	}

	evento, err := practice.NewEvento(cmd.ExpedienteID, cmd.Tipo, cmd.Titulo, cmd.Fecha)
	if err != nil {
		return nil, err
	}
	evento.Descripcion = cmd.Descripcion

	if err := s.eventos.Save(ctx, evento); err != nil {
		return nil, err
	}
	return evento, nil
}

// MarkEventoCumplido flags an agenda entry as handled
func (s *ExpedienteService) MarkEventoCumplido(ctx context.Context, id uuid.UUID) (*practice.Evento, error) {
	evento, err := s.eventos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	evento.MarkCumplido()
	if err := s.eventos.Save(ctx, evento); err != nil {
		return nil, err
	}
	return evento, nil
}

// ListEventos returns the agenda entries matching the filter
func (s *ExpedienteService) ListEventos(ctx context.Context, filter practice.EventoFilter) ([]practice.Evento, error) {
	return s.eventos.FindAll(ctx, filter)
}
