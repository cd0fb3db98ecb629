package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"vidsum/internal/config"
	"vidsum/internal/logger"
	"vidsum/internal/transcribe"
	"vidsum/pkg/executor"
)

// Result is the record returned for one successfully processed video. The
// transcript is owned by the caller; the pipeline keeps no state between
// requests.
type Result struct {
	Transcript     string        `json:"transcript"`
	WordCount      int           `json:"word_count"`
	Filename       string        `json:"filename"`
	VideoDuration  time.Duration `json:"video_duration"`
	Language       string        `json:"language,omitempty"`
	ModelName      string        `json:"model_name,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// Pipeline validates a video file, extracts its audio and transcribes it.
// Summarization is a separate request against the returned transcript.
type Pipeline struct {
	cfg     *config.Config
	exec    executor.Executor
	backend transcribe.Backend
	log     logger.Logger
}

func New(cfg *config.Config, exec executor.Executor, backend transcribe.Backend, log logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		exec:    exec,
		backend: backend,
		log:     log,
	}
}

// Process runs one video through the full pipeline. Each request walks the
// stages in order; the first failing stage aborts the request with a
// StageError. The temporary audio file is removed on success and failure
// alike.
func (p *Pipeline) Process(ctx context.Context, videoPath string) (*Result, error) {
	start := time.Now()
	stage := StageIdle

	advance := func(next Stage) {
		p.log.Debug(ctx, "Pipeline stage: %s -> %s", stage, next)
		stage = next
	}

	p.log.Info(ctx, "Starting video processing: %s", videoPath)

	advance(StageValidating)
	if err := p.validate(videoPath); err != nil {
		return nil, p.fail(ctx, stage, err)
	}

	videoDuration := p.probeDuration(ctx, videoPath)

	advance(StageExtractingAudio)
	audioPath, err := p.extractAudio(ctx, videoPath)
	if err != nil {
		return nil, p.fail(ctx, stage, err)
	}
	defer p.cleanupTempFile(ctx, audioPath)

	advance(StageTranscribing)
	transcript, err := p.backend.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, p.fail(ctx, stage, &ModelError{Op: "transcribe", Err: err})
	}

	advance(StageDone)
	res := &Result{
		Transcript:     transcript.Text,
		WordCount:      wordCount(transcript.Text),
		Filename:       filepath.Base(videoPath),
		VideoDuration:  videoDuration,
		Language:       transcript.Language,
		ModelName:      transcript.ModelName,
		ProcessingTime: time.Since(start),
	}

	p.log.Info(ctx, "Processing completed: %s (%d words, %s)",
		res.Filename, res.WordCount, res.ProcessingTime)

	return res, nil
}

func (p *Pipeline) fail(ctx context.Context, stage Stage, err error) error {
	p.log.Error(ctx, "Pipeline failed at %s: %v", stage, err)
	return &StageError{Stage: stage, Err: err}
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
