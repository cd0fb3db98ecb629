package transcribe

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"vidsum/internal/config"
	"vidsum/internal/logger"
	"vidsum/pkg/executor"
)

type whisperCpp struct {
	cfg  config.WhisperConfig
	exec executor.Executor
	log  logger.Logger
}

// NewWhisperCpp creates a Backend that shells out to the whisper.cpp CLI.
func NewWhisperCpp(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) Backend {
	return &whisperCpp{cfg: cfg, exec: exec, log: log}
}

func (w *whisperCpp) Transcribe(ctx context.Context, audioPath string) (Transcript, error) {
	start := time.Now()

	// whisper.cpp appends .txt to the output prefix.
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	txtPath := outputPrefix + ".txt"

	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audioPath,
		"-otxt",
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"--output-file", outputPrefix,
	}

	w.log.Info(ctx, "Transcribing %s with %d threads", audioPath, w.cfg.Threads)

	if _, err := w.exec.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return Transcript{}, errors.Wrap(err, "whisper transcribe")
	}

	data, err := os.ReadFile(txtPath)
	if err != nil {
		return Transcript{}, errors.Wrap(err, "read transcript output")
	}
	if err := os.Remove(txtPath); err != nil {
		w.log.Warn(ctx, "Failed to remove transcript temp file %s: %v", txtPath, err)
	}

	text := strings.TrimSpace(string(data))
	w.log.Info(ctx, "Transcription completed: %d characters", len(text))

	return Transcript{
		Text:      text,
		Language:  w.cfg.Language,
		ModelName: filepath.Base(w.cfg.ModelPath),
		Elapsed:   time.Since(start),
	}, nil
}
