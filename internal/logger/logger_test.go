package logger

import (
	"context"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"debug level", "debug", "text"},
		{"info level", "info", "text"},
		{"warn level", "warn", "json"},
		{"error level", "error", "text"},
		{"invalid level defaults to info", "invalid", "text"},
		{"empty format", "info", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level, tt.format, "")
			if log == nil {
				t.Fatal("New() returned nil")
			}

			ctx := context.Background()
			log.Debug(ctx, "debug %s", "message")
			log.Info(ctx, "info %s", "message")
			log.Warn(ctx, "warn %s", "message")
			log.Error(ctx, "error %s", "message")
		})
	}
}

func TestNewWithLogDir(t *testing.T) {
	log := New("info", "text", t.TempDir())
	if log == nil {
		t.Fatal("New() returned nil")
	}
	log.Info(context.Background(), "writes to rotating file as well")
}
