package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/manimatic/manimatic-api/internal/domain/entity"
	"github.com/manimatic/manimatic-api/internal/domain/port"
	"go.uber.org/zap"
)

// Synchronizer aligns narration audio with rendered video and muxes the
// final artifact. All strategies write only under the job's scratch dir and
// the requested output path.
type Synchronizer struct {
	binary        string
	maxRateAdjust float64
	prober        *Prober
	logger        *zap.Logger
}

func NewSynchronizer(binary string, maxRateAdjust float64, prober *Prober, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		binary:        binary,
		maxRateAdjust: maxRateAdjust,
		prober:        prober,
		logger:        logger,
	}
}

func (s *Synchronizer) Synchronize(ctx context.Context, in port.SyncInput) error {
	if in.VideoDuration <= 0 {
		return entity.NewStageError(entity.FailSync,
			"video has no measurable duration", nil)
	}

	var err error
	switch in.Method {
	case entity.SyncTimingAnalysis:
		err = s.timingAnalysis(ctx, in)
	case entity.SyncNarrationFirst:
		err = s.narrationFirst(ctx, in)
	case entity.SyncSubtitleOverlay:
		err = s.subtitleOverlay(ctx, in)
	default:
		return entity.NewStageError(entity.FailSync,
			"unknown synchronization method", fmt.Errorf("method %q", in.Method))
	}
	if err != nil {
		return err
	}

	s.logger.Info("synchronization complete",
		zap.String("method", string(in.Method)),
		zap.String("output", filepath.Base(in.OutputPath)),
	)
	return nil
}

// timingAnalysis stretches or compresses audio playback toward the video
// length, bounded by maxRateAdjust, then closes any residual gap with silence
// padding or a freeze-frame video extension.
func (s *Synchronizer) timingAnalysis(ctx context.Context, in port.SyncInput) error {
	if in.Narration == nil || in.Narration.Duration <= 0 {
		return entity.NewStageError(entity.FailSync,
			"narration audio missing or empty", nil)
	}

	videoDur := in.VideoDuration
	if total := entity.TotalDuration(in.Timings); total > 0 {
		videoDur = total
	}

	audioPath := in.Narration.AudioPath
	audioDur := in.Narration.Duration

	rate := ClampRate(audioDur/videoDur, s.maxRateAdjust)
	if rate != 1.0 {
		adjusted := filepath.Join(filepath.Dir(audioPath), "narration_adjusted.mp3")
		if err := s.run(ctx,
			"-i", audioPath,
			"-filter:a", fmt.Sprintf("atempo=%.4f", rate),
			"-c:a", "mp3",
			"-y", adjusted,
		); err != nil {
			return entity.NewStageError(entity.FailSync,
				"audio rate adjustment failed", err)
		}
		audioPath = adjusted
		// Measure the re-encoded file; atempo does not land exactly on
		// duration/rate.
		if probed, perr := s.prober.MediaDuration(ctx, adjusted); perr == nil {
			audioDur = probed
		} else {
			audioDur = audioDur / rate
		}
		s.logger.Debug("audio rate adjusted",
			zap.Float64("rate", rate),
			zap.Float64("adjusted_duration", audioDur),
		)
	}

	if audioDur > videoDur+0.5 {
		// Bounded compression could not absorb the surplus; freeze the last
		// frame so the narration finishes on screen.
		extended, err := s.extendVideo(ctx, in.VideoPath, audioDur-in.VideoDuration+0.5)
		if err != nil {
			return err
		}
		return s.mux(ctx, extended, audioPath, in.OutputPath)
	}

	// Audio fits; pad the tail with silence up to the video length.
	if err := s.run(ctx,
		"-i", in.VideoPath,
		"-i", audioPath,
		"-filter_complex", fmt.Sprintf("[1:a]apad=whole_dur=%.3f[audio]", videoDur),
		"-map", "0:v", "-map", "[audio]",
		"-c:v", "copy",
		"-c:a", "aac",
		"-avoid_negative_ts", "make_zero",
		"-y", in.OutputPath,
	); err != nil {
		return entity.NewStageError(entity.FailSync, "audio/video mux failed", err)
	}
	return nil
}

// narrationFirst treats narration length as authoritative: the video is
// freeze-frame extended or trimmed to match it.
func (s *Synchronizer) narrationFirst(ctx context.Context, in port.SyncInput) error {
	if in.Narration == nil || in.Narration.Duration <= 0 {
		return entity.NewStageError(entity.FailSync,
			"narration audio missing or empty", nil)
	}

	videoPath := in.VideoPath
	diff := in.Narration.Duration - in.VideoDuration

	switch {
	case diff > 0.5:
		extended, err := s.extendVideo(ctx, videoPath, diff+0.5)
		if err != nil {
			return err
		}
		videoPath = extended
	case diff < -0.5:
		trimmed := filepath.Join(filepath.Dir(in.Narration.AudioPath), "video_trimmed.mp4")
		if err := s.run(ctx,
			"-i", videoPath,
			"-t", fmt.Sprintf("%.3f", in.Narration.Duration),
			"-c:v", "copy", "-an",
			"-y", trimmed,
		); err != nil {
			return entity.NewStageError(entity.FailSync, "video trim failed", err)
		}
		videoPath = trimmed
	}

	return s.mux(ctx, videoPath, in.Narration.AudioPath, in.OutputPath)
}

// subtitleOverlay burns the narration text as timed subtitles; no audio
// track is added.
func (s *Synchronizer) subtitleOverlay(ctx context.Context, in port.SyncInput) error {
	segments := SubtitleSegments(in.NarrationText, in.Timings, in.VideoDuration)
	if len(segments) == 0 {
		return entity.NewStageError(entity.FailSync,
			"no narration text to overlay", nil)
	}

	srtPath := filepath.Join(filepath.Dir(in.VideoPath), "subtitles.srt")
	if err := os.WriteFile(srtPath, []byte(RenderSRT(segments)), 0o644); err != nil {
		return entity.NewStageError(entity.FailSync, "subtitle file write failed", err)
	}
	defer os.Remove(srtPath)

	if err := s.run(ctx,
		"-i", in.VideoPath,
		"-vf", fmt.Sprintf("subtitles=%s:force_style='FontSize=20,PrimaryColour=&Hffffff,OutlineColour=&H000000,Outline=2'", srtPath),
		"-c:a", "copy",
		"-y", in.OutputPath,
	); err != nil {
		return entity.NewStageError(entity.FailSync, "subtitle overlay failed", err)
	}
	return nil
}

// extendVideo clones the last frame for extra seconds and returns the path
// of the extended copy.
func (s *Synchronizer) extendVideo(ctx context.Context, videoPath string, extra float64) (string, error) {
	extended := filepath.Join(filepath.Dir(videoPath), "extended.mp4")
	if err := s.run(ctx,
		"-i", videoPath,
		"-filter_complex", fmt.Sprintf("[0:v]tpad=stop_mode=clone:stop_duration=%.3f[v]", extra),
		"-map", "[v]",
		"-c:v", "libx264", "-preset", "fast",
		"-y", extended,
	); err != nil {
		return "", entity.NewStageError(entity.FailSync, "video extension failed", err)
	}
	return extended, nil
}

func (s *Synchronizer) mux(ctx context.Context, videoPath, audioPath, outputPath string) error {
	if err := s.run(ctx,
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		"-avoid_negative_ts", "make_zero",
		"-y", outputPath,
	); err != nil {
		return entity.NewStageError(entity.FailSync, "audio/video mux failed", err)
	}
	return nil
}

func (s *Synchronizer) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, s.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg error: %w, output: %s", err, tail(string(output), 2000))
	}
	return nil
}

// ClampRate bounds a playback-rate factor to 1 +- maxAdjust. Rates within a
// hair of 1.0 collapse to exactly 1.0 so no needless re-encode happens.
func ClampRate(rate, maxAdjust float64) float64 {
	if rate > 1+maxAdjust {
		rate = 1 + maxAdjust
	}
	if rate < 1-maxAdjust {
		rate = 1 - maxAdjust
	}
	if rate > 0.99 && rate < 1.01 {
		return 1.0
	}
	return rate
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
