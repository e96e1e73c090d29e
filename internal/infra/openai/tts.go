package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/manimatic/manimatic-api/internal/domain/entity"
	"github.com/manimatic/manimatic-api/internal/domain/port"
	"go.uber.org/zap"
)

// ttsSpeed slows speech slightly for educational pacing.
const ttsSpeed = 0.85

// DurationProber measures the duration of a media file on disk.
type DurationProber interface {
	MediaDuration(ctx context.Context, path string) (float64, error)
}

// SpeechClient synthesizes narration through the OpenAI speech endpoint.
type SpeechClient struct {
	baseURL string
	apiKey  string
	model   string
	tempDir string
	http    *http.Client
	prober  DurationProber
	logger  *zap.Logger
}

func NewSpeechClient(baseURL, apiKey, model, tempDir string, timeout time.Duration, prober DurationProber, logger *zap.Logger) *SpeechClient {
	return &SpeechClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		tempDir: tempDir,
		http:    &http.Client{Timeout: timeout},
		prober:  prober,
		logger:  logger,
	}
}

// Configured reports whether a TTS credential is present. Narration requests
// against an unconfigured client fail per job, not at startup.
func (c *SpeechClient) Configured() bool {
	return c.apiKey != ""
}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed,omitempty"`
	ResponseFormat string  `json:"response_format,omitempty"`
}

func (c *SpeechClient) Synthesize(ctx context.Context, jobID, text string, voice entity.Voice) (*port.Narration, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("tts credential not configured")
	}
	text = strings.TrimSpace(text)
	if len(text) < 3 {
		return nil, fmt.Errorf("narration text too short for synthesis")
	}

	body, err := json.Marshal(speechRequest{
		Model:          c.model,
		Input:          text,
		Voice:          string(voice),
		Speed:          ttsSpeed,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build speech request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call tts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("tts returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	audioPath := filepath.Join(c.tempDir, jobID, "narration.mp3")
	if err := os.MkdirAll(filepath.Dir(audioPath), 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	out, err := os.Create(audioPath)
	if err != nil {
		return nil, fmt.Errorf("create audio file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return nil, fmt.Errorf("write audio file: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("close audio file: %w", err)
	}

	duration, err := c.prober.MediaDuration(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("probe narration duration: %w", err)
	}

	c.logger.Info("narration synthesized",
		zap.String("job_id", jobID),
		zap.String("voice", string(voice)),
		zap.Float64("duration_secs", duration),
	)

	return &port.Narration{AudioPath: audioPath, Duration: duration}, nil
}
