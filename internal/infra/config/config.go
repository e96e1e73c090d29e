package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/manimatic/manimatic-api/internal/domain/entity"
)

type Config struct {
	Host     string `env:"HOST"      envDefault:"0.0.0.0"`
	Port     int    `env:"PORT"      envDefault:"8000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com"`
	AnthropicModel   string `env:"ANTHROPIC_MODEL"    envDefault:"claude-sonnet-4-20250514"`

	OpenAIAPIKey   string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string `env:"OPENAI_BASE_URL"  envDefault:"https://api.openai.com"`
	OpenAITTSModel string `env:"OPENAI_TTS_MODEL" envDefault:"tts-1"`

	VideosDir string `env:"VIDEOS_DIR" envDefault:"generated_videos"`
	TempDir   string `env:"TEMP_DIR"   envDefault:"/tmp/manimatic"`

	ManimBinary   string        `env:"MANIM_BINARY"   envDefault:"manim"`
	FFmpegBinary  string        `env:"FFMPEG_BINARY"  envDefault:"ffmpeg"`
	FFprobeBinary string        `env:"FFPROBE_BINARY" envDefault:"ffprobe"`
	RenderTimeout time.Duration `env:"RENDER_TIMEOUT" envDefault:"10m"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT"    envDefault:"2m"`
	TTSTimeout    time.Duration `env:"TTS_TIMEOUT"    envDefault:"1m"`

	MaxScriptAttempts int `env:"MAX_SCRIPT_ATTEMPTS" envDefault:"3"`
	// MaxRateAdjust bounds the audible playback-rate stretch applied by the
	// timing_analysis strategy. 0.15 keeps speech inside +-15%.
	MaxRateAdjust         float64 `env:"MAX_RATE_ADJUST"         envDefault:"0.15"`
	DefaultTargetDuration float64 `env:"DEFAULT_TARGET_DURATION" envDefault:"45"`

	DatabaseURL string `env:"DATABASE_URL"`

	MinIOEndpoint  string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL"    envDefault:"false"`
	MinIOBucket    string `env:"MINIO_BUCKET"     envDefault:"videos"`

	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"manimatic.jobs"`

	SMTPHost       string `env:"SMTP_HOST"`
	SMTPPort       int    `env:"SMTP_PORT"       envDefault:"25"`
	SMTPFrom       string `env:"SMTP_FROM"       envDefault:"noreply@manimatic.local"`
	NotificationTo string `env:"NOTIFICATION_TO"`

	JaegerEndpoint string `env:"JAEGER_ENDPOINT"`

	// AuthTokens maps bearer tokens to user names, e.g.
	// AUTH_TOKENS="tok-1:alice,tok-2:bob". Requests without a known token
	// are still served, just anonymously.
	AuthTokens map[string]string `env:"AUTH_TOKENS"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate enforces startup-time requirements. The TTS credential is only
// needed when a request asks for narration, so its absence is not fatal here.
func (c *Config) validate() error {
	if c.AnthropicAPIKey == "" {
		return entity.NewStageError(entity.FailConfiguration, "ANTHROPIC_API_KEY is required", nil)
	}
	if c.MaxRateAdjust < 0 || c.MaxRateAdjust >= 1 {
		return entity.NewStageError(entity.FailConfiguration, "MAX_RATE_ADJUST must be in [0, 1)", nil)
	}
	if c.MaxScriptAttempts < 1 {
		return entity.NewStageError(entity.FailConfiguration, "MAX_SCRIPT_ATTEMPTS must be at least 1", nil)
	}
	return nil
}
