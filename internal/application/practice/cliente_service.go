package practice

import (
	"context"
	"errors"

	"github.com/estudio/backend/internal/domain/practice"
	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateClienteCommand registers a new cliente
type CreateClienteCommand struct {
	Nombre         string
	DocumentoTipo  practice.DocumentoTipo
	DocumentoValor string
	Email          string
	Telefono       string
	Domicilio      string
}

// UpdateClienteCommand updates an existing cliente's editable fields
type UpdateClienteCommand struct {
	ClienteID uuid.UUID
	Nombre    *string
	Email     *string
	Telefono  *string
	Domicilio *string
}

// ClienteService manages the cliente registry
type ClienteService struct {
	clientes  practice.ClienteRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewClienteService creates a ClienteService
func NewClienteService(clientes practice.ClienteRepository, publisher shared.EventPublisher, logger *zap.Logger) *ClienteService {
	return &ClienteService{
		clientes:  clientes,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateCliente registers a cliente, rejecting duplicate documents
func (s *ClienteService) CreateCliente(ctx context.Context, cmd CreateClienteCommand) (*practice.Cliente, error) {
	existing, err := s.clientes.FindByDocumento(ctx, cmd.DocumentoTipo, cmd.DocumentoValor)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	cliente, err := practice.NewCliente(cmd.Nombre, cmd.DocumentoTipo, cmd.DocumentoValor)
	if err != nil {
		return nil, err
	}
	cliente.UpdateContacto(cmd.Email, cmd.Telefono, cmd.Domicilio)

	if err := s.clientes.Save(ctx, cliente); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, cliente.GetDomainEvents()...); err != nil {
			s.logger.Warn("failed to publish cliente events", zap.Error(err))
		}
		cliente.ClearDomainEvents()
	}

	s.logger.Info("cliente created", zap.String("cliente_id", cliente.ID.String()))
	return cliente, nil
}

// UpdateCliente applies the provided field changes
func (s *ClienteService) UpdateCliente(ctx context.Context, cmd UpdateClienteCommand) (*practice.Cliente, error) {
	cliente, err := s.clientes.FindByID(ctx, cmd.ClienteID)
	if err != nil {
		return nil, err
	}

	if cmd.Nombre != nil {
		if err := cliente.Rename(*cmd.Nombre); err != nil {
			return nil, err
		}
	}
	email, telefono, domicilio := cliente.Email, cliente.Telefono, cliente.Domicilio
	if cmd.Email != nil {
		email = *cmd.Email
	}
	if cmd.Telefono != nil {
		telefono = *cmd.Telefono
	}
	if cmd.Domicilio != nil {
		domicilio = *cmd.Domicilio
	}
	cliente.UpdateContacto(email, telefono, domicilio)

	if err := s.clientes.Save(ctx, cliente); err != nil {
		return nil, err
	}
	return cliente, nil
}

// DeactivateCliente marks a cliente inactive
func (s *ClienteService) DeactivateCliente(ctx context.Context, id uuid.UUID) error {
	cliente, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := cliente.Deactivate(); err != nil {
		return err
	}
	return s.clientes.Save(ctx, cliente)
}

// GetCliente returns a cliente by id
func (s *ClienteService) GetCliente(ctx context.Context, id uuid.UUID) (*practice.Cliente, error) {
	return s.clientes.FindByID(ctx, id)
}

// ListClientes returns a page of clientes matching the filter
func (s *ClienteService) ListClientes(ctx context.Context, filter practice.ClienteFilter) (*shared.Paginated[practice.Cliente], error) {
	items, err := s.clientes.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.clientes.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
