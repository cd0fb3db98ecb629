package summarize

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"vidsum/internal/logger"
)

// ErrNoChunksSummarized reports that every chunk of a long-text reduction
// failed. Partial chunk failures are tolerated; total failure is not.
var ErrNoChunksSummarized = errors.New("no chunks summarized")

// Service is the summarization entry point. It dispatches between the
// generative and extractive strategies: short texts go straight to the model,
// long texts through a chunked map-reduce, and any generation failure falls
// back to extractive sentence selection.
type Service struct {
	gen         *Generative // nil when no generative model is configured
	extractive  Extractive
	chunkBudget int
	maxDepth    int
	maxWords    int
	log         logger.Logger
}

func NewService(gen *Generative, chunkBudget, maxDepth, defaultMaxWords int, log logger.Logger) *Service {
	return &Service{
		gen:         gen,
		chunkBudget: chunkBudget,
		maxDepth:    maxDepth,
		maxWords:    defaultMaxWords,
		log:         log,
	}
}

func (s *Service) Summarize(ctx context.Context, text, style string, maxWords int) Result {
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		return failure("no text provided for summarization", start)
	}
	if maxWords <= 0 {
		maxWords = s.maxWords
	}

	if s.gen == nil {
		s.log.Info(ctx, "No generative model configured, using extractive summarization")
		return s.extractiveResult(ctx, text, style, maxWords, start)
	}

	summary, strategy, err := s.reduce(ctx, text, style, maxWords, 0)
	if err != nil {
		if errors.Is(err, ErrNoChunksSummarized) {
			s.log.Error(ctx, "Long-text reduction failed: %v", err)
			return failure(ErrNoChunksSummarized.Error(), start)
		}
		s.log.Warn(ctx, "Generation failed, falling back to extractive summarization: %v", err)
		return s.extractiveResult(ctx, text, style, maxWords, start)
	}

	res := Result{
		Success:        true,
		Summary:        summary,
		WordCount:      wordCount(summary),
		ProcessingTime: time.Since(start),
		Strategy:       strategy,
		MaxWords:       maxWords,
	}
	s.log.Info(ctx, "Summary generated. Words: %d, Time: %s", res.WordCount, res.ProcessingTime)
	return res
}

// reduce summarizes text generatively, chunking when the input exceeds twice
// the requested length. Chunk summaries reuse reduce itself, so the reduction
// is self-similar; depth caps the recursion, degrading to extractive
// selection at the bound instead of growing the call stack without limit.
// The returned Strategy reports which path produced the text.
func (s *Service) reduce(ctx context.Context, text, style string, maxWords, depth int) (string, Strategy, error) {
	if wordCount(text) <= maxWords*2 {
		out, err := s.gen.Summarize(ctx, text, style, maxWords)
		return out, StrategyGenerative, err
	}

	if depth >= s.maxDepth {
		s.log.Warn(ctx, "Reduction depth %d reached, switching to extractive selection", depth)
		return BulletSummary(text, maxWords), StrategyExtractive, nil
	}

	chunks := Split(text, s.chunkBudget)
	if len(chunks) == 1 {
		// A single chunk needs no reduce step.
		out, err := s.gen.Summarize(ctx, chunks[0], style, maxWords)
		return out, StrategyGenerative, err
	}

	s.log.Info(ctx, "Long text: reducing %d chunks at depth %d", len(chunks), depth)

	perChunk := maxWords / len(chunks)
	if perChunk < 1 {
		perChunk = 1
	}

	var summaries []string
	for i, chunk := range chunks {
		out, _, err := s.reduce(ctx, chunk, "concise", perChunk, depth+1)
		if err != nil {
			s.log.Warn(ctx, "Failed to summarize chunk %d/%d: %v", i+1, len(chunks), err)
			continue
		}
		summaries = append(summaries, out)
	}

	if len(summaries) == 0 {
		return "", StrategyGenerative, ErrNoChunksSummarized
	}

	combined := strings.Join(summaries, " ")
	out, err := s.gen.Summarize(ctx, combined, style, maxWords)
	return out, StrategyGenerative, err
}

func (s *Service) extractiveResult(ctx context.Context, text, style string, maxWords int, start time.Time) Result {
	res := s.extractive.Summarize(ctx, text, style, maxWords)
	res.ProcessingTime = time.Since(start)
	return res
}
