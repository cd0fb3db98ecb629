package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vidsum/internal/config"
	"vidsum/internal/logger"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to YAML configuration file")
		mode       = flag.String("mode", "watch", "run mode: process | summarize | watch | serve")
		input      = flag.String("input", "", "video file (process mode) or text file (summarize mode)")
		maxWords   = flag.Int("max-words", 0, "summary length budget in words (0 = config default)")
		style      = flag.String("style", "", "summary style hint (empty = config default)")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Paths.LogDir)

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "Startup failed: %v", err)
		os.Exit(1)
	}

	switch *mode {
	case "process":
		err = app.runProcess(ctx, *input, *style, *maxWords)
	case "summarize":
		err = app.runSummarize(ctx, *input, *style, *maxWords)
	case "watch":
		err = runUntilSignal(ctx, log, app.runWatch)
	case "serve":
		err = runUntilSignal(ctx, log, app.runServe)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}

	if err != nil {
		log.Error(ctx, "%v", err)
		os.Exit(1)
	}
}

// runUntilSignal runs fn with a context that is cancelled on SIGINT/SIGTERM.
func runUntilSignal(ctx context.Context, log logger.Logger, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- fn(ctx)
	}()

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
		cancel()
		<-errChan // wait for in-flight work to drain
		return nil
	case err := <-errChan:
		if err == context.Canceled {
			return nil
		}
		return err
	}
}
