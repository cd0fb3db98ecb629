package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"vidsum/internal/config"
	"vidsum/internal/transcribe"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...interface{}) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...interface{})  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...interface{})  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...interface{}) {}

// fakeExecutor records invocations and fails for selected binaries. With
// touchOutput set, the ffmpeg fake creates its output file like the real
// binary would.
type fakeExecutor struct {
	mu          sync.Mutex
	commands    [][]string
	failOn      map[string]error
	touchOutput bool
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.commands = append(f.commands, append([]string{name}, args...))
	f.mu.Unlock()
	if err, ok := f.failOn[name]; ok {
		return "", err
	}
	if name == "ffprobe" {
		return "12.5\n", nil
	}
	if name == "ffmpeg" && f.touchOutput {
		if err := os.WriteFile(args[len(args)-1], nil, 0644); err != nil {
			return "", err
		}
	}
	return "", nil
}

type fakeBackend struct {
	transcript string
	err        error
}

func (f *fakeBackend) Transcribe(ctx context.Context, audioPath string) (transcribe.Transcript, error) {
	if f.err != nil {
		return transcribe.Transcript{}, f.err
	}
	return transcribe.Transcript{Text: f.transcript, ModelName: "fake"}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Whisper.ModelPath = "model.bin"
	cfg.Whisper.BinaryPath = "whisper-cli"
	cfg.Paths.Input = t.TempDir()
	cfg.Paths.Output = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	cfg.Paths.Temp = t.TempDir()
	return cfg
}

func writeVideoFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, size), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcessHappyPath(t *testing.T) {
	cfg := testConfig(t)
	exec := &fakeExecutor{}
	backend := &fakeBackend{transcript: "hello from the test transcript"}
	p := New(cfg, exec, backend, nopLogger{})

	videoPath := writeVideoFile(t, "talk.mp4", 128)
	res, err := p.Process(context.Background(), videoPath)
	if err != nil {
		t.Fatal(err)
	}

	if res.Transcript != "hello from the test transcript" {
		t.Errorf("transcript = %q", res.Transcript)
	}
	if res.WordCount != 5 {
		t.Errorf("word count = %d, want 5", res.WordCount)
	}
	if res.Filename != "talk.mp4" {
		t.Errorf("filename = %q", res.Filename)
	}
	if res.VideoDuration.Seconds() != 12.5 {
		t.Errorf("video duration = %s, want 12.5s", res.VideoDuration)
	}

	var ffmpegArgs []string
	for _, cmd := range exec.commands {
		if cmd[0] == "ffmpeg" {
			ffmpegArgs = cmd
		}
	}
	if ffmpegArgs == nil {
		t.Fatal("ffmpeg was never invoked")
	}
	joined := strings.Join(ffmpegArgs, " ")
	for _, want := range []string{"-vn", "-acodec pcm_s16le", "-ar 16000", "-ac 1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("ffmpeg args missing %q: %s", want, joined)
		}
	}
}

func TestProcessMissingFile(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, &fakeExecutor{}, &fakeBackend{}, nopLogger{})

	_, err := p.Process(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}

	var serr *StageError
	if !errors.As(err, &serr) || serr.Stage != StageValidating {
		t.Errorf("expected failure at %s, got %v", StageValidating, err)
	}
}

func TestProcessUnsupportedExtension(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, &fakeExecutor{}, &fakeBackend{}, nopLogger{})

	path := writeVideoFile(t, "notes.txt", 16)
	_, err := p.Process(context.Background(), path)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Reason, "unsupported file format") {
		t.Errorf("reason = %q", verr.Reason)
	}
}

func TestProcessFileTooLarge(t *testing.T) {
	cfg := testConfig(t)
	cfg.Video.MaxSizeMB = 1
	p := New(cfg, &fakeExecutor{}, &fakeBackend{}, nopLogger{})

	path := writeVideoFile(t, "big.mp4", 2*1024*1024)
	_, err := p.Process(context.Background(), path)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Reason, "too large") {
		t.Errorf("reason = %q", verr.Reason)
	}
}

func TestProcessFFmpegFailure(t *testing.T) {
	cfg := testConfig(t)
	exec := &fakeExecutor{failOn: map[string]error{"ffmpeg": fmt.Errorf("exit status 1\nstderr: codec error")}}
	p := New(cfg, exec, &fakeBackend{transcript: "unused"}, nopLogger{})

	path := writeVideoFile(t, "broken.mp4", 64)
	_, err := p.Process(context.Background(), path)

	var terr *ExternalToolError
	if !errors.As(err, &terr) {
		t.Fatalf("expected ExternalToolError, got %v", err)
	}
	if terr.Tool != "ffmpeg" {
		t.Errorf("tool = %q", terr.Tool)
	}
	if !strings.Contains(err.Error(), "codec error") {
		t.Errorf("diagnostic output lost: %v", err)
	}

	var serr *StageError
	if !errors.As(err, &serr) || serr.Stage != StageExtractingAudio {
		t.Errorf("expected failure at %s, got %v", StageExtractingAudio, err)
	}
}

func TestProcessTranscribeFailure(t *testing.T) {
	cfg := testConfig(t)
	backend := &fakeBackend{err: fmt.Errorf("model crashed")}
	p := New(cfg, &fakeExecutor{}, backend, nopLogger{})

	path := writeVideoFile(t, "talk.mp4", 64)
	_, err := p.Process(context.Background(), path)

	var merr *ModelError
	if !errors.As(err, &merr) {
		t.Fatalf("expected ModelError, got %v", err)
	}

	var serr *StageError
	if !errors.As(err, &serr) || serr.Stage != StageTranscribing {
		t.Errorf("expected failure at %s, got %v", StageTranscribing, err)
	}
}

func TestProcessProbeFailureIsNonFatal(t *testing.T) {
	cfg := testConfig(t)
	exec := &fakeExecutor{failOn: map[string]error{"ffprobe": fmt.Errorf("no such stream")}}
	p := New(cfg, exec, &fakeBackend{transcript: "still works"}, nopLogger{})

	path := writeVideoFile(t, "talk.mkv", 64)
	res, err := p.Process(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if res.VideoDuration != 0 {
		t.Errorf("duration should be zero when probing fails, got %s", res.VideoDuration)
	}
}

// statBackend verifies its audio file exists for the whole transcription, so
// a cleanup racing in from another request shows up as an error.
type statBackend struct {
	hold time.Duration
}

func (b *statBackend) Transcribe(ctx context.Context, audioPath string) (transcribe.Transcript, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return transcribe.Transcript{}, fmt.Errorf("audio file missing before transcription: %w", err)
	}
	time.Sleep(b.hold)
	if _, err := os.Stat(audioPath); err != nil {
		return transcribe.Transcript{}, fmt.Errorf("audio file vanished mid-transcription: %w", err)
	}
	return transcribe.Transcript{Text: "ok"}, nil
}

func TestProcessConcurrentRequestsSameVideo(t *testing.T) {
	cfg := testConfig(t)
	exec := &fakeExecutor{touchOutput: true}
	p := New(cfg, exec, &statBackend{hold: 100 * time.Millisecond}, nopLogger{})

	videoPath := writeVideoFile(t, "talk.mp4", 128)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = p.Process(context.Background(), videoPath)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("request %d failed: %v", i, err)
		}
	}

	var audioPaths []string
	for _, cmd := range exec.commands {
		if cmd[0] == "ffmpeg" {
			audioPaths = append(audioPaths, cmd[len(cmd)-1])
		}
	}
	if len(audioPaths) != 2 {
		t.Fatalf("expected 2 ffmpeg invocations, got %d", len(audioPaths))
	}
	if audioPaths[0] == audioPaths[1] {
		t.Errorf("concurrent requests must not share a temp audio file: %q", audioPaths[0])
	}
}

func TestSupportedExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.mp4", true},
		{"a.MOV", true},
		{"a.webm", true},
		{"a.txt", false},
		{"a", false},
	}
	for _, tt := range tests {
		if got := SupportedExtension(tt.path); got != tt.want {
			t.Errorf("SupportedExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
