package port

import (
	"context"

	"github.com/manimatic/manimatic-api/internal/domain/entity"
)

// Narration is synthesized speech on disk plus its measured duration.
type Narration struct {
	AudioPath string
	Duration  float64
}

// Narrator synthesizes narration audio with the given voice.
type Narrator interface {
	Synthesize(ctx context.Context, jobID, text string, voice entity.Voice) (*Narration, error)
}
