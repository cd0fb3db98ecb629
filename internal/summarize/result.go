package summarize

import (
	"context"
	"strings"
	"time"
)

// Strategy identifies which summarization path produced a result.
type Strategy string

const (
	StrategyGenerative Strategy = "generative"
	StrategyExtractive Strategy = "extractive"
)

// Result is the record produced by every summarization request. Success and
// Err are mutually exclusive: success implies an empty Err, failure implies a
// non-empty Err and an empty Summary.
type Result struct {
	Success        bool          `json:"success"`
	Summary        string        `json:"summary"`
	WordCount      int           `json:"word_count"`
	ProcessingTime time.Duration `json:"processing_time"`
	Strategy       Strategy      `json:"strategy,omitempty"`
	MaxWords       int           `json:"max_words,omitempty"`
	Err            string        `json:"error,omitempty"`
}

// Summarizer is the single capability both summarization variants implement.
type Summarizer interface {
	Summarize(ctx context.Context, text, style string, maxWords int) Result
}

func failure(msg string, start time.Time) Result {
	return Result{
		Success:        false,
		Err:            msg,
		ProcessingTime: time.Since(start),
	}
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
