package transcribe

import (
	"context"
	"time"
)

// Transcript is the text output of one speech-to-text run.
type Transcript struct {
	Text      string
	Language  string
	ModelName string
	Elapsed   time.Duration
}

// Backend is a pluggable speech-to-text backend.
type Backend interface {
	Transcribe(ctx context.Context, audioPath string) (Transcript, error)
}
