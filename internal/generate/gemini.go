package generate

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"vidsum/internal/logger"
)

type gemini struct {
	apiKeys []string
	model   string
	log     logger.Logger

	mu         sync.Mutex // guards currentKey; one instance serves all request goroutines
	currentKey int
}

// NewGemini creates a Generator backed by the Gemini API, rotating through
// the supplied API keys on quota errors.
func NewGemini(apiKeys []string, model string, log logger.Logger) (Generator, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys supplied")
	}
	return &gemini{apiKeys: apiKeys, model: model, log: log}, nil
}

func (g *gemini) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature:     ptr(float32(params.Temperature)),
		TopP:            ptr(float32(params.TopP)),
		MaxOutputTokens: int32(params.MaxTokens),
	}

	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		idx := g.keyIndex()
		key := g.apiKeys[idx]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = errors.Wrap(err, "create client")
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genCfg)
		if err != nil {
			if isQuotaError(err) {
				g.log.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", errors.Wrap(err, "generate content")
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				text.WriteString(part.Text)
			}
			return strings.TrimSpace(text.String()), nil
		}

		return "", errors.New("empty response from Gemini")
	}

	return "", errors.Wrap(lastErr, "all API keys exhausted")
}

func (g *gemini) keyIndex() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey
}

func (g *gemini) rotateKey() {
	g.mu.Lock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	g.mu.Unlock()
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func ptr[T any](v T) *T {
	return &v
}
