package ports

import (
	"context"

	"github.com/relaycrm/crm-system/internal/core/domain"
)

// AuditRecorder accepts auth events for asynchronous recording. Enqueue must
// not block the request path.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}
