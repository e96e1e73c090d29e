package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/manimatic/manimatic-api/internal/domain/entity"
	"github.com/manimatic/manimatic-api/internal/domain/port"
)

// JobRepository keeps jobs in process memory. The default store when no
// DATABASE_URL is configured; jobs are never evicted.
type JobRepository struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]entity.GenerationJob
}

func NewJobRepository() *JobRepository {
	return &JobRepository{jobs: make(map[uuid.UUID]entity.GenerationJob)}
}

func (r *JobRepository) Create(_ context.Context, job *entity.GenerationJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = *job
	return nil
}

func (r *JobRepository) Update(_ context.Context, job *entity.GenerationJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return port.ErrJobNotFound
	}
	r.jobs[job.ID] = *job
	return nil
}

func (r *JobRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.GenerationJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, port.ErrJobNotFound
	}
	return &job, nil
}

func (r *JobRepository) List(_ context.Context) ([]*entity.GenerationJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.GenerationJob, 0, len(r.jobs))
	for id := range r.jobs {
		job := r.jobs[id]
		out = append(out, &job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *JobRepository) ListByUser(_ context.Context, user string) ([]*entity.GenerationJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.GenerationJob
	for id := range r.jobs {
		if r.jobs[id].User != user {
			continue
		}
		job := r.jobs[id]
		out = append(out, &job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
