package generate

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"vidsum/internal/config"
	"vidsum/internal/logger"
	"vidsum/pkg/executor"
)

type llamaCpp struct {
	cfg  config.LLMConfig
	exec executor.Executor
	log  logger.Logger
}

// NewLlamaCpp creates a Generator that shells out to the llama.cpp CLI with a
// local GGUF model. Returns an error when the model file is missing so the
// caller can decide to run without a generative backend.
func NewLlamaCpp(cfg config.LLMConfig, exec executor.Executor, log logger.Logger) (Generator, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("no model path configured")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, errors.Wrap(err, "model file not found")
	}
	return &llamaCpp{cfg: cfg, exec: exec, log: log}, nil
}

func (l *llamaCpp) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	args := []string{
		"-m", l.cfg.ModelPath,
		"-p", prompt,
		"-n", strconv.Itoa(params.MaxTokens),
		"-c", strconv.Itoa(l.cfg.ContextSize),
		"-t", strconv.Itoa(l.cfg.Threads),
		"--temp", fmt.Sprintf("%g", params.Temperature),
		"--top-p", fmt.Sprintf("%g", params.TopP),
		"--no-display-prompt",
		"-no-cnv",
	}

	l.log.Debug(ctx, "Running %s (%d prompt chars, %d max tokens)",
		l.cfg.BinaryPath, len(prompt), params.MaxTokens)

	out, err := l.exec.Execute(ctx, l.cfg.BinaryPath, args...)
	if err != nil {
		return "", errors.Wrap(err, "llama.cpp generate")
	}

	return strings.TrimSpace(out), nil
}
