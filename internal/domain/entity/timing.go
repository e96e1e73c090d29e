package entity

// SceneTiming is one scene's slot on the rendered video timeline, in seconds.
// The renderer emits these in order; they are read-only once produced.
type SceneTiming struct {
	Index    int     `json:"index"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// TotalDuration sums the scene durations.
func TotalDuration(timings []SceneTiming) float64 {
	var total float64
	for _, t := range timings {
		total += t.Duration
	}
	return total
}

// NarrationSegment is a narration sentence pinned to a window of the video
// timeline.
type NarrationSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
