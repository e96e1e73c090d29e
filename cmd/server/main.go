package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/manimatic/manimatic-api/internal/api"
	"github.com/manimatic/manimatic-api/internal/domain/port"
	"github.com/manimatic/manimatic-api/internal/infra/anthropic"
	"github.com/manimatic/manimatic-api/internal/infra/config"
	"github.com/manimatic/manimatic-api/internal/infra/email"
	"github.com/manimatic/manimatic-api/internal/infra/ffmpeg"
	"github.com/manimatic/manimatic-api/internal/infra/manim"
	"github.com/manimatic/manimatic-api/internal/infra/memory"
	miniostorage "github.com/manimatic/manimatic-api/internal/infra/minio"
	"github.com/manimatic/manimatic-api/internal/infra/openai"
	"github.com/manimatic/manimatic-api/internal/infra/postgres"
	"github.com/manimatic/manimatic-api/internal/infra/rabbitmq"
	"github.com/manimatic/manimatic-api/internal/infra/tracing"
	"github.com/manimatic/manimatic-api/internal/usecase"
	"github.com/manimatic/manimatic-api/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting manimatic-api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fatalOnErr(os.MkdirAll(cfg.VideosDir, 0o755), "create videos dir")
	fatalOnErr(os.MkdirAll(cfg.TempDir, 0o755), "create temp dir")

	// Tracing (non-fatal if the collector is unavailable)
	tp, err := tracing.InitTracer(ctx, cfg.JaegerEndpoint)
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	// Job store: postgres when configured, in-memory otherwise.
	var repo port.JobRepository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		fatalOnErr(err, "connect to postgres")
		defer pool.Close()

		pgRepo := postgres.NewJobRepository(pool)
		fatalOnErr(pgRepo.EnsureSchema(ctx), "ensure postgres schema")
		repo = pgRepo
		log.Info("using postgres job repository")
	} else {
		repo = memory.NewJobRepository()
		log.Info("using in-memory job repository")
	}

	// MinIO artifact mirror (optional)
	var storage port.ArtifactStorage
	if cfg.MinIOEndpoint != "" {
		s, err := miniostorage.NewStorage(miniostorage.StorageConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			UseSSL:    cfg.MinIOUseSSL,
			Bucket:    cfg.MinIOBucket,
		})
		fatalOnErr(err, "create minio storage")
		fatalOnErr(s.EnsureBucket(ctx), "ensure minio bucket")
		storage = s
	}

	// RabbitMQ status events (optional)
	var publisher port.EventPublisher
	if cfg.RabbitMQURL != "" {
		rmqConn, err := amqp.Dial(cfg.RabbitMQURL)
		fatalOnErr(err, "connect to rabbitmq")
		defer rmqConn.Close()

		pub, err := rabbitmq.NewStatusPublisher(rmqConn, cfg.RabbitMQExchange)
		fatalOnErr(err, "create rabbitmq publisher")
		defer pub.Close()
		publisher = pub
	}

	// Email failure notifications (optional)
	var notifier port.FailureNotifier
	if cfg.SMTPHost != "" && cfg.NotificationTo != "" {
		notifier = email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.NotificationTo, log)
	}

	// Infra adapters
	prober := ffmpeg.NewProber(cfg.FFprobeBinary)
	llm := anthropic.NewClient(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.LLMTimeout, log)
	renderer := manim.NewRenderer(cfg.ManimBinary, cfg.TempDir, cfg.RenderTimeout, prober, log)
	narrator := openai.NewSpeechClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAITTSModel, cfg.TempDir, cfg.TTSTimeout, prober, log)
	syncer := ffmpeg.NewSynchronizer(cfg.FFmpegBinary, cfg.MaxRateAdjust, prober, log)

	// Use case
	uc := usecase.NewGenerateAnimationUseCase(
		repo, llm, llm, llm,
		renderer, narrator, syncer,
		storage, publisher, notifier,
		log,
		usecase.Config{
			VideosDir:             cfg.VideosDir,
			TempDir:               cfg.TempDir,
			MaxScriptAttempts:     cfg.MaxScriptAttempts,
			DefaultTargetDuration: cfg.DefaultTargetDuration,
		},
	)

	handler := api.NewHandler(uc, repo, cfg.VideosDir, log)
	router := api.NewRouter(handler, cfg.AuthTokens, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("manimatic-api listening", zap.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", zap.Error(err))
	}

	log.Info("manimatic-api stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
