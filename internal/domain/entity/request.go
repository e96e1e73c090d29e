package entity

import "strings"

// Resolution is a manim quality tier, passed straight through to the
// renderer's -q flag.
type Resolution string

const (
	ResolutionLow        Resolution = "l"
	ResolutionMedium     Resolution = "m"
	ResolutionHigh       Resolution = "h"
	ResolutionProduction Resolution = "p"
	Resolution4K         Resolution = "k"
)

// SyncMethod selects how narration audio is aligned with the rendered video.
type SyncMethod string

const (
	SyncTimingAnalysis  SyncMethod = "timing_analysis"
	SyncNarrationFirst  SyncMethod = "narration_first"
	SyncSubtitleOverlay SyncMethod = "subtitle_overlay"
)

const MinPromptLength = 3

// GenerationRequest is the accepted, immutable description of one animation
// to generate. Zero-value optional fields are filled by ApplyDefaults before
// validation.
type GenerationRequest struct {
	Prompt       string     `json:"prompt"`
	Resolution   Resolution `json:"resolution"`
	IncludeAudio *bool      `json:"include_audio"`
	Voice        Voice      `json:"voice"`
	Language     string     `json:"language"`
	SyncMethod   SyncMethod `json:"sync_method"`
}

func (r *GenerationRequest) ApplyDefaults() {
	if r.Resolution == "" {
		r.Resolution = ResolutionMedium
	}
	if r.IncludeAudio == nil {
		audio := true
		r.IncludeAudio = &audio
	}
	if r.Voice == "" {
		r.Voice = DefaultVoice
	}
	if r.SyncMethod == "" {
		r.SyncMethod = SyncTimingAnalysis
	}
	r.Language = strings.ToLower(strings.TrimSpace(r.Language))
}

func (r *GenerationRequest) WantsAudio() bool {
	return r.IncludeAudio != nil && *r.IncludeAudio
}

// Validate checks the request against the enumerated value sets. It assumes
// ApplyDefaults has run.
func (r *GenerationRequest) Validate() error {
	if len(strings.TrimSpace(r.Prompt)) < MinPromptLength {
		return NewStageError(FailInvalidRequest, "prompt must not be empty", nil)
	}
	switch r.Resolution {
	case ResolutionLow, ResolutionMedium, ResolutionHigh, ResolutionProduction, Resolution4K:
	default:
		return NewStageError(FailInvalidRequest, "unknown resolution tier: "+string(r.Resolution), nil)
	}
	if !r.Voice.Valid() {
		return NewStageError(FailInvalidRequest, "unknown voice: "+string(r.Voice), nil)
	}
	switch r.SyncMethod {
	case SyncTimingAnalysis, SyncNarrationFirst, SyncSubtitleOverlay:
	default:
		return NewStageError(FailInvalidRequest, "unknown sync method: "+string(r.SyncMethod), nil)
	}
	return nil
}
