package practice

import (
	"context"
	"time"

	"github.com/estudio/backend/internal/domain/practice"
	"github.com/estudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorageService is the object-store port the adjunto flow needs.
// Implemented by the S3 storage and the local stub in infrastructure/storage.
type ObjectStorageService interface {
	// GenerateUploadURL returns a presigned PUT URL and its expiration
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// GenerateDownloadURL returns a presigned GET URL and its expiration
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	// DeleteObject removes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error
	// ObjectExists checks whether an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// AdjuntoURLExpiry is how long presigned upload and download URLs stay valid
const AdjuntoURLExpiry = 15 * time.Minute

// RegisterAdjuntoCommand registers attachment metadata ahead of the upload
type RegisterAdjuntoCommand struct {
	ExpedienteID uuid.UUID
	Nombre       string
	ContentType  string
	Size         int64
}

// AdjuntoUploadTicket is metadata plus the presigned URL the client PUTs
// the bytes to.
type AdjuntoUploadTicket struct {
	Adjunto   *practice.Adjunto `json:"adjunto"`
	UploadURL string            `json:"upload_url"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// AdjuntoService manages attachment metadata and the presigned-URL flow:
// the backend never proxies file bytes, clients talk to the object store
// directly.
type AdjuntoService struct {
	adjuntos    practice.AdjuntoRepository
	expedientes practice.ExpedienteRepository
	storage     ObjectStorageService
	logger      *zap.Logger
}

// NewAdjuntoService creates an AdjuntoService
func NewAdjuntoService(
	adjuntos practice.AdjuntoRepository,
	expedientes practice.ExpedienteRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *AdjuntoService {
	return &AdjuntoService{
		adjuntos:    adjuntos,
		expedientes: expedientes,
		storage:     storage,
		logger:      logger,
	}
}

// RegisterAdjunto stores attachment metadata and issues an upload URL
func (s *AdjuntoService) RegisterAdjunto(ctx context.Context, cmd RegisterAdjuntoCommand) (*AdjuntoUploadTicket, error) {
	if _, err := s.expedientes.FindByID(ctx, cmd.ExpedienteID); err != nil {
		return nil, err
	}

	adjunto, err := practice.NewAdjunto(cmd.ExpedienteID, cmd.Nombre, cmd.ContentType, cmd.Size)
	if err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, adjunto.StorageKey, cmd.ContentType, AdjuntoURLExpiry)
	if err != nil {
		return nil, err
	}
	if err := s.adjuntos.Save(ctx, adjunto); err != nil {
		return nil, err
	}

	s.logger.Info("adjunto registered",
		zap.String("adjunto_id", adjunto.ID.String()),
		zap.String("expediente_id", cmd.ExpedienteID.String()),
		zap.Int64("size", cmd.Size))
	return &AdjuntoUploadTicket{
		Adjunto:   adjunto,
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// DownloadURL issues a presigned download URL for an uploaded adjunto
func (s *AdjuntoService) DownloadURL(ctx context.Context, id uuid.UUID) (string, time.Time, error) {
	adjunto, err := s.adjuntos.FindByID(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}

	exists, err := s.storage.ObjectExists(ctx, adjunto.StorageKey)
	if err != nil {
		return "", time.Time{}, err
	}
	if !exists {
		return "", time.Time{}, shared.NewDomainError("ADJUNTO_NOT_UPLOADED", "File was registered but never uploaded")
	}

	return s.storage.GenerateDownloadURL(ctx, adjunto.StorageKey, AdjuntoURLExpiry)
}

// DeleteAdjunto removes the metadata and the stored object
func (s *AdjuntoService) DeleteAdjunto(ctx context.Context, id uuid.UUID) error {
	adjunto, err := s.adjuntos.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, adjunto.StorageKey); err != nil {
		// Metadata deletion goes ahead; an orphaned object is preferable to
		// metadata pointing at nothing.
		s.logger.Warn("failed to delete stored object",
			zap.String("storage_key", adjunto.StorageKey), zap.Error(err))
	}
	return s.adjuntos.Delete(ctx, id)
}

// ListByExpediente returns the adjuntos filed under an expediente
func (s *AdjuntoService) ListByExpediente(ctx context.Context, expedienteID uuid.UUID) ([]practice.Adjunto, error) {
	return s.adjuntos.FindByExpediente(ctx, expedienteID)
}
