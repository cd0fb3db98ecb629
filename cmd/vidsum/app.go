package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vidsum/internal/config"
	"vidsum/internal/generate"
	"vidsum/internal/logger"
	"vidsum/internal/pipeline"
	"vidsum/internal/server"
	"vidsum/internal/store"
	"vidsum/internal/summarize"
	"vidsum/internal/transcribe"
	"vidsum/internal/watcher"
	"vidsum/pkg/executor"
)

// app bundles the wired components shared by all run modes.
type app struct {
	cfg        *config.Config
	log        logger.Logger
	pipe       *pipeline.Pipeline
	summarizer *summarize.Service
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	exec := executor.New()

	if !executor.Available(cfg.FFmpeg.BinaryPath) {
		log.Warn(ctx, "%s not found in PATH, video processing will fail", cfg.FFmpeg.BinaryPath)
	}

	backend := transcribe.NewWhisperCpp(cfg.Whisper, exec, log)
	pipe := pipeline.New(cfg, exec, backend, log)

	gen := selectGenerator(ctx, cfg, exec, log)
	var generative *summarize.Generative
	if gen != nil {
		generative = summarize.NewGenerative(gen, generate.Params{
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			TopP:        cfg.LLM.TopP,
		})
	}

	svc := summarize.NewService(
		generative,
		cfg.Summary.ChunkBudget,
		cfg.Summary.MaxReduceDepth,
		cfg.Summary.MaxWords,
		log,
	)

	return &app{cfg: cfg, log: log, pipe: pipe, summarizer: svc}, nil
}

// selectGenerator picks the generative backend: Gemini when API keys are
// configured, the local llama.cpp model otherwise, nil when neither is
// available (the summarizer then runs extractive only).
func selectGenerator(ctx context.Context, cfg *config.Config, exec executor.Executor, log logger.Logger) generate.Generator {
	if len(cfg.Gemini.APIKeys) > 0 {
		gen, err := generate.NewGemini(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)
		if err == nil {
			log.Info(ctx, "Using Gemini generative backend (%s)", cfg.Gemini.Model)
			return gen
		}
		log.Warn(ctx, "Gemini backend unavailable: %v", err)
	}

	gen, err := generate.NewLlamaCpp(cfg.LLM, exec, log)
	if err != nil {
		log.Warn(ctx, "No generative model available, falling back to extractive summarization: %v", err)
		return nil
	}
	log.Info(ctx, "Using llama.cpp generative backend (%s)", filepath.Base(cfg.LLM.ModelPath))
	return gen
}

// processVideo runs the full flow for one video: pipeline, summarization and
// report writing. Used by both process and watch modes.
func (a *app) processVideo(ctx context.Context, videoPath, style string, maxWords int) error {
	res, err := a.pipe.Process(ctx, videoPath)
	if err != nil {
		return err
	}

	if style == "" {
		style = a.cfg.Summary.Style
	}
	sum := a.summarizer.Summarize(ctx, res.Transcript, style, maxWords)
	if !sum.Success {
		return fmt.Errorf("summarization failed: %s", sum.Err)
	}

	title := strings.TrimSuffix(res.Filename, filepath.Ext(res.Filename))
	if err := os.MkdirAll(a.cfg.Paths.Output, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	mdPath := filepath.Join(a.cfg.Paths.Output, title+".md")
	if err := summarize.WriteMarkdown(title, sum, res.Transcript, mdPath); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}

	docxPath := filepath.Join(a.cfg.Paths.Output, title+".docx")
	if err := summarize.WriteDocx(title, sum, res.Transcript, docxPath); err != nil {
		a.log.Warn(ctx, "Failed to write docx report: %v", err)
	}

	a.log.Info(ctx, "Reports written: %s, %s", mdPath, docxPath)
	return nil
}

func (a *app) runProcess(ctx context.Context, input, style string, maxWords int) error {
	if input == "" {
		return fmt.Errorf("process mode requires -input")
	}
	return a.processVideo(ctx, input, style, maxWords)
}

func (a *app) runSummarize(ctx context.Context, input, style string, maxWords int) error {
	if input == "" {
		return fmt.Errorf("summarize mode requires -input")
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input text: %w", err)
	}

	res := a.summarizer.Summarize(ctx, string(data), style, maxWords)
	if !res.Success {
		return fmt.Errorf("summarization failed: %s", res.Err)
	}

	fmt.Println(res.Summary)
	return nil
}

func (a *app) runWatch(ctx context.Context) error {
	for _, dir := range []string{a.cfg.Paths.Input, a.cfg.Paths.Output, a.cfg.Paths.Temp, a.cfg.Paths.Archived} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	handler := func(ctx context.Context, videoPath string) error {
		if err := a.processVideo(ctx, videoPath, "", 0); err != nil {
			return err
		}
		// Move the processed video out of the watched directory so it is
		// not picked up again.
		dest := filepath.Join(a.cfg.Paths.Archived, filepath.Base(videoPath))
		if err := os.Rename(videoPath, dest); err != nil {
			a.log.Warn(ctx, "Failed to archive %s: %v", videoPath, err)
		}
		return nil
	}

	w, err := watcher.New(a.cfg.Paths.Input, handler, a.log, a.cfg.Performance.MaxConcurrent)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	a.log.Info(ctx, "Monitoring %s, output to %s", a.cfg.Paths.Input, a.cfg.Paths.Output)
	return w.Start(ctx)
}

func (a *app) runServe(ctx context.Context) error {
	st, err := store.New(a.cfg.Paths.Database, a.log)
	if err != nil {
		return fmt.Errorf("open job store: %w", err)
	}
	defer st.Close()

	srv := server.New(a.cfg, a.pipe, a.summarizer, st, a.log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
