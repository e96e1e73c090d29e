package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manimatic/manimatic-api/internal/domain/entity"
	"github.com/manimatic/manimatic-api/internal/domain/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJob() *entity.GenerationJob {
	req := entity.GenerationRequest{Prompt: "explain vectors"}
	req.ApplyDefaults()
	return entity.NewJob(req)
}

func TestCreateAndFind(t *testing.T) {
	repo := NewJobRepository()
	ctx := context.Background()

	job := testJob()
	require.NoError(t, repo.Create(ctx, job))

	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, found.ID)
	assert.Equal(t, entity.JobStatusPending, found.Status)
}

func TestFindUnknownJob(t *testing.T) {
	repo := NewJobRepository()

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, port.ErrJobNotFound)
}

func TestUpdate(t *testing.T) {
	repo := NewJobRepository()
	ctx := context.Background()

	job := testJob()
	require.NoError(t, repo.Create(ctx, job))

	job.Advance(entity.JobStatusRendering)
	require.NoError(t, repo.Update(ctx, job))

	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusRendering, found.Status)
}

func TestUpdateUnknownJob(t *testing.T) {
	repo := NewJobRepository()
	assert.ErrorIs(t, repo.Update(context.Background(), testJob()), port.ErrJobNotFound)
}

func TestFindReturnsACopy(t *testing.T) {
	repo := NewJobRepository()
	ctx := context.Background()

	job := testJob()
	require.NoError(t, repo.Create(ctx, job))

	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	found.Status = entity.JobStatusFailed

	again, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusPending, again.Status)
}

func TestListNewestFirst(t *testing.T) {
	repo := NewJobRepository()
	ctx := context.Background()

	older := testJob()
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := testJob()

	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	jobs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, newer.ID, jobs[0].ID)
	assert.Equal(t, older.ID, jobs[1].ID)
}

func TestListByUser(t *testing.T) {
	repo := NewJobRepository()
	ctx := context.Background()

	older := testJob()
	older.User = "alice"
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := testJob()
	newer.User = "alice"
	other := testJob()
	other.User = "bob"
	anon := testJob()

	for _, job := range []*entity.GenerationJob{older, newer, other, anon} {
		require.NoError(t, repo.Create(ctx, job))
	}

	jobs, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, newer.ID, jobs[0].ID)
	assert.Equal(t, older.ID, jobs[1].ID)

	none, err := repo.ListByUser(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, none)
}
