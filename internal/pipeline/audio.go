package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// extractAudio extracts mono PCM audio from the video into the temp
// directory, in the format the transcription backend expects. The output
// name carries a per-request suffix so concurrent requests for the same
// video never share a temp file.
func (p *Pipeline) extractAudio(ctx context.Context, videoPath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(p.cfg.Paths.Temp, "audio_"+base+"_"+uuid.NewString()+".wav")

	if err := os.MkdirAll(p.cfg.Paths.Temp, 0755); err != nil {
		return "", &ExternalToolError{Tool: "ffmpeg", Err: err}
	}

	args := []string{
		"-i", videoPath,
		"-vn", // no video
		"-acodec", p.cfg.FFmpeg.AudioCodec,
		"-ar", strconv.Itoa(p.cfg.FFmpeg.SampleRate),
		"-ac", strconv.Itoa(p.cfg.FFmpeg.Channels),
		"-y",
		audioPath,
	}

	p.log.Info(ctx, "Extracting audio: %s -> %s", videoPath, audioPath)

	if _, err := p.exec.Execute(ctx, p.cfg.FFmpeg.BinaryPath, args...); err != nil {
		return "", &ExternalToolError{Tool: "ffmpeg", Err: err}
	}

	return audioPath, nil
}

// probeDuration reads the container duration via ffprobe. Probe failures are
// non-fatal; the metadata duration is simply left zero.
func (p *Pipeline) probeDuration(ctx context.Context, videoPath string) time.Duration {
	out, err := p.exec.Execute(ctx, p.cfg.FFmpeg.ProbePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	if err != nil {
		p.log.Warn(ctx, "Failed to probe video duration: %v", err)
		return 0
	}

	secs, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		p.log.Warn(ctx, "Unexpected ffprobe output %q: %v", strings.TrimSpace(out), err)
		return 0
	}

	return time.Duration(secs * float64(time.Second))
}

// cleanupTempFile removes a request-scoped temp file, logging on failure.
func (p *Pipeline) cleanupTempFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			p.log.Warn(ctx, "Failed to cleanup temp file %s: %v", path, err)
		}
		return
	}
	p.log.Debug(ctx, "Cleaned up temp file: %s", path)
}
