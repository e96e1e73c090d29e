package port

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/manimatic/manimatic-api/internal/domain/entity"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(ctx context.Context, job *entity.GenerationJob) error
	Update(ctx context.Context, job *entity.GenerationJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.GenerationJob, error)
	List(ctx context.Context) ([]*entity.GenerationJob, error)
	ListByUser(ctx context.Context, user string) ([]*entity.GenerationJob, error)
}
