package store

import (
	"context"
	"path/filepath"
	"testing"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...interface{}) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...interface{})  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...interface{})  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...interface{}) {}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"), nopLogger{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetJob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job, err := s.CreateJob(ctx, "/videos/talk.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if job.ID == "" {
		t.Error("job id should be set")
	}
	if job.Status != StatusPending {
		t.Errorf("status = %q, want %q", job.Status, StatusPending)
	}

	got, err := s.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("job not found after create")
	}
	if got.VideoPath != "/videos/talk.mp4" {
		t.Errorf("video path = %q", got.VideoPath)
	}
}

func TestGetJobMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetJob(context.Background(), "no-such-id")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected nil for missing job, got %+v", got)
	}
}

func TestJobLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job, err := s.CreateJob(ctx, "/videos/lecture.mkv")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SetStatus(ctx, job.ID, StatusProcessing); err != nil {
		t.Fatal(err)
	}
	if err := s.SetTranscript(ctx, job.ID, "the full transcript text", 4); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSummary(ctx, job.ID, "- a bullet", "extractive", 3); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", got.Status, StatusCompleted)
	}
	if got.Transcript != "the full transcript text" || got.TranscriptWords != 4 {
		t.Errorf("transcript not persisted: %+v", got)
	}
	if got.Summary != "- a bullet" || got.Strategy != "extractive" || got.SummaryWords != 3 {
		t.Errorf("summary not persisted: %+v", got)
	}
}

func TestSetError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job, err := s.CreateJob(ctx, "/videos/bad.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetError(ctx, job.ID, "validating: file does not exist"); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusFailed {
		t.Errorf("status = %q, want %q", got.Status, StatusFailed)
	}
	if got.Error == "" {
		t.Error("error message should be persisted")
	}
}
