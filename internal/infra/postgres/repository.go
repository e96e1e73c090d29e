package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/manimatic/manimatic-api/internal/domain/entity"
	"github.com/manimatic/manimatic-api/internal/domain/port"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

// EnsureSchema creates the jobs table when missing. The table is small
// enough that a migration tool would be overkill.
func (r *JobRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS generation_jobs (
			id            UUID PRIMARY KEY,
			prompt        TEXT NOT NULL,
			resolution    TEXT NOT NULL,
			include_audio BOOLEAN NOT NULL,
			voice         TEXT NOT NULL,
			language      TEXT NOT NULL DEFAULT '',
			sync_method   TEXT NOT NULL,
			status        TEXT NOT NULL,
			video_path    TEXT NOT NULL DEFAULT '',
			failure_kind  TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL,
			completed_at  TIMESTAMPTZ
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *JobRepository) Create(ctx context.Context, job *entity.GenerationJob) error {
	query := `
		INSERT INTO generation_jobs (
			id, prompt, resolution, include_audio, voice, language, sync_method,
			status, video_path, failure_kind, error_message,
			created_at, updated_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	_, err := r.pool.Exec(ctx, query,
		job.ID, job.User, job.Request.Prompt, string(job.Request.Resolution),
		job.Request.WantsAudio(), string(job.Request.Voice), job.Request.Language,
		string(job.Request.SyncMethod), string(job.Status), job.VideoPath,
		string(job.FailureKind), job.Error,
		job.CreatedAt, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) Update(ctx context.Context, job *entity.GenerationJob) error {
	query := `
		UPDATE generation_jobs SET
			status=$2, video_path=$3, failure_kind=$4, error_message=$5,
			updated_at=$6, completed_at=$7
		WHERE id=$1`

	tag, err := r.pool.Exec(ctx, query,
		job.ID, string(job.Status), job.VideoPath,
		string(job.FailureKind), job.Error,
		job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return port.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.GenerationJob, error) {
	query := `
		SELECT id, prompt, resolution, include_audio, voice, language, sync_method,
			status, video_path, failure_kind, error_message,
			created_at, updated_at, completed_at
		FROM generation_jobs WHERE id=$1`

	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, port.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job by id: %w", err)
	}
	return job, nil
}

func (r *JobRepository) List(ctx context.Context) ([]*entity.GenerationJob, error) {
	query := `
		SELECT id, prompt, resolution, include_audio, voice, language, sync_method,
			status, video_path, failure_kind, error_message,
			created_at, updated_at, completed_at
		FROM generation_jobs ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*entity.GenerationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *JobRepository) ListByUser(ctx context.Context, user string) ([]*entity.GenerationJob, error) {
	query := `
		SELECT id, user_name, prompt, resolution, include_audio, voice, language,
			sync_method, status, video_path, failure_kind, error_message,
			created_at, updated_at, completed_at
		FROM generation_jobs WHERE user_name=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("list jobs by user: %w", err)
	}
	defer rows.Close()

	var jobs []*entity.GenerationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func scanJob(row pgx.Row) (*entity.GenerationJob, error) {
	job := &entity.GenerationJob{}
	var (
		resolution, voice, syncMethod string
		includeAudio                  bool
		status, failureKind           string
	)
	err := row.Scan(
		&job.ID, &job.User, &job.Request.Prompt, &resolution, &includeAudio, &voice,
		&job.Request.Language, &syncMethod, &status, &job.VideoPath,
		&failureKind, &job.Error,
		&job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Request.Resolution = entity.Resolution(resolution)
	job.Request.IncludeAudio = &includeAudio
	job.Request.Voice = entity.Voice(voice)
	job.Request.SyncMethod = entity.SyncMethod(syncMethod)
	job.Status = entity.JobStatus(status)
	job.FailureKind = entity.FailureKind(failureKind)
	return job, nil
}
