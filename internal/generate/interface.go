package generate

import "context"

// Params are the sampling parameters for one generation call.
type Params struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Generator produces text from a prompt. Implementations wrap a concrete
// model runtime (local llama.cpp binary, Gemini API).
type Generator interface {
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}
