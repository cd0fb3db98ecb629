package summarize

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"vidsum/internal/generate"
)

func TestGenerativePromptEmbedsTextAndBudget(t *testing.T) {
	gen := &fakeGenerator{response: "  bullet summary \n"}
	g := NewGenerative(gen, generate.Params{MaxTokens: 128})

	out, err := g.Summarize(context.Background(), "the source text", "detailed", 42)
	if err != nil {
		t.Fatal(err)
	}

	if out != "bullet summary" {
		t.Errorf("output should be whitespace-trimmed, got %q", out)
	}
	if len(gen.calls) != 1 {
		t.Fatalf("expected one call, got %d", len(gen.calls))
	}

	prompt := gen.calls[0]
	if !strings.Contains(prompt, "the source text") {
		t.Error("prompt missing source text")
	}
	if !strings.Contains(prompt, "Approximately 42 words") {
		t.Error("prompt missing word budget")
	}
	// The style is deliberately ignored; every prompt is bullet-point.
	if !strings.Contains(prompt, "bullet points") {
		t.Error("prompt is not the bullet-point template")
	}
}

func TestGenerativePropagatesBackendError(t *testing.T) {
	wantErr := fmt.Errorf("backend unavailable")
	gen := &fakeGenerator{fail: func(string) error { return wantErr }}
	g := NewGenerative(gen, generate.Params{})

	if _, err := g.Summarize(context.Background(), "text", "concise", 10); err == nil {
		t.Fatal("expected error from backend")
	} else if !strings.Contains(err.Error(), "backend unavailable") {
		t.Errorf("error = %v, want backend error surfaced", err)
	}

	if len(gen.calls) != 1 {
		t.Errorf("must not retry, got %d calls", len(gen.calls))
	}
}
