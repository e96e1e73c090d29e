package port

import (
	"context"

	"github.com/manimatic/manimatic-api/internal/domain/entity"
)

// EventPublisher pushes job status changes to an external broker.
type EventPublisher interface {
	PublishStatus(ctx context.Context, event entity.JobStatusEvent) error
}
