package port

import (
	"context"

	"github.com/manimatic/manimatic-api/internal/domain/entity"
)

// RenderResult is the rendered artifact plus the per-scene timings the
// engine reported. Timings always hold at least one entry.
type RenderResult struct {
	VideoPath string
	Timings   []entity.SceneTiming
	Duration  float64
}

// Renderer executes an animation script and produces a video. Implementations
// own their scratch space and clean it up on failure.
type Renderer interface {
	Render(ctx context.Context, jobID, script string, resolution entity.Resolution) (*RenderResult, error)
}
