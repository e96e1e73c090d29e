package port

import (
	"context"

	"github.com/manimatic/manimatic-api/internal/domain/entity"
)

// SyncInput bundles everything a synchronization strategy needs. Narration
// is nil for subtitle overlay, which only consumes the text.
type SyncInput struct {
	VideoPath     string
	VideoDuration float64
	Timings       []entity.SceneTiming
	Narration     *Narration
	NarrationText string
	Method        entity.SyncMethod
	OutputPath    string
}

// Synchronizer produces the final muxed video at OutputPath.
type Synchronizer interface {
	Synchronize(ctx context.Context, in SyncInput) error
}
