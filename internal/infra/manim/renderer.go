package manim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/manimatic/manimatic-api/internal/domain/entity"
	"github.com/manimatic/manimatic-api/internal/domain/port"
	"go.uber.org/zap"
)

// timingsMarker prefixes the JSON line the generated scripts print with their
// per-scene timings.
const timingsMarker = "MANIM_SCENE_TIMINGS:"

// DurationProber falls back to measuring the rendered file when the engine
// did not report scene timings.
type DurationProber interface {
	MediaDuration(ctx context.Context, path string) (float64, error)
}

// Renderer runs the manim engine as a subprocess, one isolated working
// directory per job.
type Renderer struct {
	binary  string
	tempDir string
	timeout time.Duration
	prober  DurationProber
	logger  *zap.Logger
}

func NewRenderer(binary, tempDir string, timeout time.Duration, prober DurationProber, logger *zap.Logger) *Renderer {
	return &Renderer{
		binary:  binary,
		tempDir: tempDir,
		timeout: timeout,
		prober:  prober,
		logger:  logger,
	}
}

func (r *Renderer) Render(ctx context.Context, jobID, script string, resolution entity.Resolution) (*port.RenderResult, error) {
	workDir := filepath.Join(r.tempDir, jobID, "render")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create render workdir: %w", err)
	}

	scriptPath := filepath.Join(workDir, "scene.py")
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return nil, fmt.Errorf("write script: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.binary,
		"render",
		"-q", string(resolution),
		"--output_file", jobID,
		"--media_dir", workDir,
		scriptPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, entity.NewStageError(entity.FailRenderTimeout,
				"rendering did not finish within the allowed time",
				fmt.Errorf("manim timed out after %s", r.timeout))
		}
		return nil, entity.NewStageError(entity.FailRender,
			"rendering engine reported an error",
			fmt.Errorf("manim exit: %w, output: %s", err, tail(string(output), 2000)))
	}

	videoPath, err := findVideo(workDir)
	if err != nil {
		return nil, entity.NewStageError(entity.FailRenderNoOutput,
			"rendering finished but produced no video", err)
	}

	timings, ok := parseTimings(string(output))
	duration := entity.TotalDuration(timings)
	if !ok || duration <= 0 {
		probed, probeErr := r.prober.MediaDuration(ctx, videoPath)
		if probeErr != nil {
			return nil, entity.NewStageError(entity.FailRenderNoOutput,
				"rendered video could not be measured", probeErr)
		}
		duration = probed
		timings = []entity.SceneTiming{{Index: 0, Start: 0, Duration: probed}}
	}

	r.logger.Info("render complete",
		zap.String("job_id", jobID),
		zap.Int("scenes", len(timings)),
		zap.Float64("duration_secs", duration),
	)

	return &port.RenderResult{
		VideoPath: videoPath,
		Timings:   timings,
		Duration:  duration,
	}, nil
}

// findVideo locates the produced mp4 anywhere under the engine's media tree.
func findVideo(root string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".mp4") {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan render output: %w", err)
	}
	if found == "" {
		return "", fmt.Errorf("no mp4 under %s", filepath.Base(root))
	}
	return found, nil
}

// parseTimings extracts the scene timing line the script prints. Engine runs
// that predate the marker, or scripts that skip it, fall back to probing.
func parseTimings(output string) ([]entity.SceneTiming, bool) {
	idx := strings.LastIndex(output, timingsMarker)
	if idx < 0 {
		return nil, false
	}
	line := output[idx+len(timingsMarker):]
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}

	var timings []entity.SceneTiming
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &timings); err != nil {
		return nil, false
	}
	if len(timings) == 0 {
		return nil, false
	}
	for i := range timings {
		if timings[i].Duration < 0 {
			return nil, false
		}
		timings[i].Index = i
	}
	return timings, true
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
