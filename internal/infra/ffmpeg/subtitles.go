package ffmpeg

import (
	"fmt"
	"strings"

	"github.com/manimatic/manimatic-api/internal/domain/entity"
)

// wordsPerSubtitle keeps each caption short enough to read.
const wordsPerSubtitle = 8

// SubtitleSegments splits narration text into caption-sized chunks and pins
// them to the scene timeline: each scene receives a share of captions
// proportional to its duration, spaced evenly within the scene's window.
func SubtitleSegments(text string, timings []entity.SceneTiming, videoDuration float64) []entity.NarrationSegment {
	words := strings.Fields(text)
	if len(words) == 0 || videoDuration <= 0 {
		return nil
	}

	var chunks []string
	for i := 0; i < len(words); i += wordsPerSubtitle {
		end := i + wordsPerSubtitle
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}

	if entity.TotalDuration(timings) <= 0 {
		timings = []entity.SceneTiming{{Index: 0, Start: 0, Duration: videoDuration}}
	}
	total := entity.TotalDuration(timings)

	segments := make([]entity.NarrationSegment, 0, len(chunks))
	next := 0
	for i, scene := range timings {
		count := int(float64(len(chunks))*scene.Duration/total + 0.5)
		if i == len(timings)-1 {
			count = len(chunks) - next // remainder lands on the last scene
		}
		if count <= 0 || next >= len(chunks) {
			continue
		}
		if next+count > len(chunks) {
			count = len(chunks) - next
		}
		step := scene.Duration / float64(count)
		for k := 0; k < count; k++ {
			start := scene.Start + float64(k)*step
			segments = append(segments, entity.NarrationSegment{
				Start: start,
				End:   start + step,
				Text:  chunks[next],
			})
			next++
		}
	}
	return segments
}

// RenderSRT serializes segments in SubRip format.
func RenderSRT(segments []entity.NarrationSegment) string {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, srtTimestamp(seg.Start), srtTimestamp(seg.End), seg.Text)
	}
	return b.String()
}

func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := int(seconds)
	millis := int((seconds - float64(whole)) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d",
		whole/3600, (whole%3600)/60, whole%60, millis)
}
