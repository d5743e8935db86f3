package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/estudio/backend/internal/domain/shared"
)

// AuditLogHandler is a wildcard handler that writes every domain
// event to the application log. It gives operators a trail of cobros,
// anulaciones and estado changes without a dedicated audit store.
type AuditLogHandler struct {
	logger *zap.Logger
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)

func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.Named("audit")}
}

func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty list so the handler receives all events.
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}
