package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/manimatic/manimatic-api/internal/domain/entity"
	"github.com/manimatic/manimatic-api/internal/domain/port"
	"github.com/manimatic/manimatic-api/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// GenerateAnimationUseCase drives one job through the five-stage pipeline:
// script generation, rendering, optional narration and synchronization, and
// publication of the final artifact.
type GenerateAnimationUseCase struct {
	repo      port.JobRepository
	scripts   port.ScriptGenerator
	narration port.NarrationWriter
	detector  port.LanguageDetector
	renderer  port.Renderer
	narrator  port.Narrator
	syncer    port.Synchronizer
	storage   port.ArtifactStorage // optional
	publisher port.EventPublisher  // optional
	notifier  port.FailureNotifier // optional
	logger    *zap.Logger
	cfg       Config
}

type Config struct {
	VideosDir             string
	TempDir               string
	MaxScriptAttempts     int
	DefaultTargetDuration float64
}

func NewGenerateAnimationUseCase(
	repo port.JobRepository,
	scripts port.ScriptGenerator,
	narration port.NarrationWriter,
	detector port.LanguageDetector,
	renderer port.Renderer,
	narrator port.Narrator,
	syncer port.Synchronizer,
	storage port.ArtifactStorage,
	publisher port.EventPublisher,
	notifier port.FailureNotifier,
	logger *zap.Logger,
	cfg Config,
) *GenerateAnimationUseCase {
	return &GenerateAnimationUseCase{
		repo:      repo,
		scripts:   scripts,
		narration: narration,
		detector:  detector,
		renderer:  renderer,
		narrator:  narrator,
		syncer:    syncer,
		storage:   storage,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
		cfg:       cfg,
	}
}

// Submit validates the request and records a new pending job attributed to
// user, which may be empty for anonymous callers. Validation failures never
// create a job.
func (uc *GenerateAnimationUseCase) Submit(ctx context.Context, req entity.GenerationRequest, user string) (*entity.GenerationJob, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	job := entity.NewJob(req)
	job.User = user
	if err := uc.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// Execute runs the pipeline for an accepted job. It is meant to run in its
// own goroutine; all failures terminate the job rather than propagate.
func (uc *GenerateAnimationUseCase) Execute(ctx context.Context, job *entity.GenerationJob) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "GenerateAnimation.Execute")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", job.ID.String()))

	log := uc.logger.With(zap.String("job_id", job.ID.String()))
	totalTimer := time.Now()

	metrics.ActiveJobs.Inc()
	defer metrics.ActiveJobs.Dec()

	workDir := filepath.Join(uc.cfg.TempDir, job.ID.String())
	defer os.RemoveAll(workDir)

	finalPath := filepath.Join(uc.cfg.VideosDir, job.ID.String()+".mp4")

	if err := uc.runPipeline(ctx, job, finalPath, log); err != nil {
		uc.failJob(ctx, job, finalPath, err, log)
		return
	}

	metrics.JobsTotal.WithLabelValues(string(entity.JobStatusDone)).Inc()
	metrics.StageDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())
	log.Info("job completed", zap.Duration("elapsed", time.Since(totalTimer)))
}

func (uc *GenerateAnimationUseCase) runPipeline(ctx context.Context, job *entity.GenerationJob, finalPath string, log *zap.Logger) error {
	tracer := otel.Tracer("usecase")
	req := job.Request

	// Stage: script generation.
	uc.advance(ctx, job, entity.JobStatusScriptGen, log)

	scriptStart := time.Now()
	ctxScript, spanScript := tracer.Start(ctx, "generate_script")
	script, language, err := uc.generateScript(ctxScript, req, log)
	spanScript.End()
	if err != nil {
		return entity.NewStageError(entity.FailScriptGeneration,
			"script generation failed", err)
	}
	metrics.StageDuration.WithLabelValues("script").Observe(time.Since(scriptStart).Seconds())

	// Stage: rendering, with bounded refine-and-retry on engine errors.
	uc.advance(ctx, job, entity.JobStatusRendering, log)

	renderStart := time.Now()
	ctxRender, spanRender := tracer.Start(ctx, "render")
	result, err := uc.renderWithRefinement(ctxRender, job.ID.String(), script, language, req.Resolution, log)
	spanRender.End()
	if err != nil {
		return err // already a StageError with the render kind
	}
	metrics.StageDuration.WithLabelValues("render").Observe(time.Since(renderStart).Seconds())

	if !req.WantsAudio() {
		if err := moveFile(result.VideoPath, finalPath); err != nil {
			return fmt.Errorf("publish silent video: %w", err)
		}
		return uc.finish(ctx, job, finalPath, log)
	}

	// Stage: narration and synchronization.
	uc.advance(ctx, job, entity.JobStatusSynchronizing, log)

	syncStart := time.Now()
	ctxSync, spanSync := tracer.Start(ctx, "synchronize")
	err = uc.synchronize(ctxSync, job, script, language, result, finalPath)
	spanSync.End()
	if err != nil {
		return err
	}
	metrics.StageDuration.WithLabelValues("sync").Observe(time.Since(syncStart).Seconds())

	return uc.finish(ctx, job, finalPath, log)
}

// generateScript resolves the narration language and produces a validated
// script. Language detection and duration estimation are best-effort: their
// failure degrades to defaults instead of failing the job.
func (uc *GenerateAnimationUseCase) generateScript(ctx context.Context, req entity.GenerationRequest, log *zap.Logger) (script, language string, err error) {
	language = req.Language
	if language == "" {
		detected, derr := uc.detector.DetectLanguage(ctx, req.Prompt)
		if derr != nil {
			log.Warn("language detection failed, defaulting to English", zap.Error(derr))
			detected = "en"
		}
		language = detected
	}

	targetDuration := uc.cfg.DefaultTargetDuration
	if req.WantsAudio() {
		estimated, eerr := uc.narration.EstimateDuration(ctx, req.Prompt)
		if eerr != nil {
			log.Warn("duration estimation failed, using default", zap.Error(eerr))
		} else {
			targetDuration = estimated
		}
	}

	script, err = uc.scripts.GenerateScript(ctx, req.Prompt, language, targetDuration)
	if err != nil {
		return "", "", err
	}
	return script, language, nil
}

// renderWithRefinement renders the script, feeding engine errors back to the
// model for a bounded number of attempts. Timeouts and missing output are
// terminal immediately: retrying them repeats the same cost for the same
// outcome.
func (uc *GenerateAnimationUseCase) renderWithRefinement(ctx context.Context, jobID, script, language string, resolution entity.Resolution, log *zap.Logger) (*port.RenderResult, error) {
	var lastErr error
	for attempt := 1; attempt <= uc.cfg.MaxScriptAttempts; attempt++ {
		result, err := uc.renderer.Render(ctx, jobID, script, resolution)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Only engine-reported failures are worth another model round; plumbing
		// errors (scratch dir, script write) would fail identically again.
		var se *entity.StageError
		if !errors.As(err, &se) || se.Kind != entity.FailRender || attempt == uc.cfg.MaxScriptAttempts {
			break
		}

		log.Warn("render failed, refining script",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		fixed, rerr := uc.scripts.RefineScript(ctx, script, err.Error(), language)
		if rerr != nil {
			log.Warn("script refinement failed", zap.Error(rerr))
			break
		}
		script = fixed
	}

	var se *entity.StageError
	if errors.As(lastErr, &se) {
		return nil, lastErr
	}
	return nil, entity.NewStageError(entity.FailRender, "rendering failed", lastErr)
}

func (uc *GenerateAnimationUseCase) synchronize(ctx context.Context, job *entity.GenerationJob, script, language string, result *port.RenderResult, finalPath string) error {
	req := job.Request

	text, err := uc.narration.Narration(ctx, script, req.Prompt, language, result.Duration)
	if err != nil {
		return entity.NewStageError(entity.FailNarration,
			"narration generation failed", err)
	}

	in := port.SyncInput{
		VideoPath:     result.VideoPath,
		VideoDuration: result.Duration,
		Timings:       result.Timings,
		NarrationText: text,
		Method:        req.SyncMethod,
		OutputPath:    finalPath,
	}

	if req.SyncMethod != entity.SyncSubtitleOverlay {
		voice := entity.VoiceForLanguage(language, req.Voice)
		narration, err := uc.narrator.Synthesize(ctx, job.ID.String(), text, voice)
		if err != nil {
			return entity.NewStageError(entity.FailNarration,
				"narration synthesis failed", err)
		}
		in.Narration = narration
	}

	return uc.syncer.Synchronize(ctx, in)
}

func (uc *GenerateAnimationUseCase) finish(ctx context.Context, job *entity.GenerationJob, finalPath string, log *zap.Logger) error {
	job.Complete(finalPath)
	if err := uc.repo.Update(ctx, job); err != nil {
		return fmt.Errorf("update job to done: %w", err)
	}

	if uc.storage != nil {
		if err := uc.storage.UploadVideo(ctx, job.ID.String()+".mp4", finalPath); err != nil {
			log.Warn("artifact mirror upload failed", zap.Error(err))
		}
	}

	uc.publishStatus(ctx, job, log)
	return nil
}

func (uc *GenerateAnimationUseCase) failJob(ctx context.Context, job *entity.GenerationJob, finalPath string, cause error, log *zap.Logger) {
	kind := entity.KindOf(cause, entity.FailRender)
	log.Error("job failed",
		zap.String("kind", string(kind)),
		zap.Error(cause),
	)

	// The served directory never keeps a failed job's partial output.
	if err := os.Remove(finalPath); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to remove partial artifact", zap.Error(err))
	}

	job.Fail(kind, entity.PublicMessage(cause))
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to persist job failure", zap.Error(err))
	}

	metrics.JobsTotal.WithLabelValues(string(entity.JobStatusFailed)).Inc()
	metrics.JobFailuresTotal.WithLabelValues(string(kind)).Inc()

	uc.publishStatus(ctx, job, log)

	if uc.notifier != nil {
		if err := uc.notifier.NotifyFailure(ctx, job.ID.String(), job.Request.Prompt, job.Error); err != nil {
			log.Warn("failure notification not sent", zap.Error(err))
		}
	}
}

func (uc *GenerateAnimationUseCase) advance(ctx context.Context, job *entity.GenerationJob, next entity.JobStatus, log *zap.Logger) {
	job.Advance(next)
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to persist job status", zap.Error(err))
	}
	uc.publishStatus(ctx, job, log)
	log.Info("job stage", zap.String("status", string(job.Status)))
}

func (uc *GenerateAnimationUseCase) publishStatus(ctx context.Context, job *entity.GenerationJob, log *zap.Logger) {
	if uc.publisher == nil {
		return
	}
	event := entity.JobStatusEvent{
		JobID:       job.ID,
		Status:      job.Status,
		FailureKind: job.FailureKind,
		Error:       job.Error,
	}
	if job.Status == entity.JobStatusDone {
		event.VideoURL = "/videos/" + job.ID.String() + ".mp4"
	}
	if err := uc.publisher.PublishStatus(ctx, event); err != nil {
		log.Warn("failed to publish status event", zap.Error(err))
	}
}

// moveFile renames, falling back to copy-and-remove across filesystems.
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
