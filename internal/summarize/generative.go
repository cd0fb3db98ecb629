package summarize

import (
	"context"
	"fmt"
	"strings"

	"vidsum/internal/generate"
)

// Every prompt uses the bullet-point template regardless of the requested
// style; the style knob only affects budget selection upstream.
const bulletPrompt = `You are a helpful assistant that creates structured summaries with bullet points.

Please summarize the following text using bullet points to highlight the key information.

Text to summarize:
%s

Please provide a summary with:
- Main points as bullet points
- Key insights and takeaways
- Approximately %d words total
- Clear and organized structure

Summary:`

// Generative wraps a model backend with the fixed summarization prompt and
// static sampling parameters. Errors from the backend propagate unchanged;
// there are no retries at this layer.
type Generative struct {
	gen    generate.Generator
	params generate.Params
}

func NewGenerative(gen generate.Generator, params generate.Params) *Generative {
	return &Generative{gen: gen, params: params}
}

func (g *Generative) Summarize(ctx context.Context, text, style string, maxWords int) (string, error) {
	prompt := fmt.Sprintf(bulletPrompt, text, maxWords)

	out, err := g.gen.Generate(ctx, prompt, g.params)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
