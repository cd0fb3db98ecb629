package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	LLM         LLMConfig         `yaml:"llm"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Summary     SummaryConfig     `yaml:"summary"`
	Video       VideoConfig       `yaml:"video"`
	Paths       PathsConfig       `yaml:"paths"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Threads    int    `yaml:"threads"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ProbePath  string `yaml:"probe_path"`
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
	AudioCodec string `yaml:"audio_codec"`
}

// LLMConfig configures the local llama.cpp generation backend. An empty
// model_path disables generative summarization entirely.
type LLMConfig struct {
	BinaryPath  string  `yaml:"binary_path"`
	ModelPath   string  `yaml:"model_path"`
	ContextSize int     `yaml:"context_size"`
	Threads     int     `yaml:"threads"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type SummaryConfig struct {
	MaxWords       int    `yaml:"max_words"`
	MinWords       int    `yaml:"min_words"`
	Style          string `yaml:"style"`
	ChunkBudget    int    `yaml:"chunk_budget"`
	MaxReduceDepth int    `yaml:"max_reduce_depth"`
}

type VideoConfig struct {
	MaxSizeMB int64 `yaml:"max_size_mb"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
	LogDir   string `yaml:"log_dir"`
	Database string `yaml:"database"`
}

type ServerConfig struct {
	Port              string `yaml:"port"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	Burst             int    `yaml:"burst"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

func (c *Config) Validate() error {
	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}
	if c.Whisper.BinaryPath == "" {
		return fmt.Errorf("whisper.binary_path is required")
	}
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	if c.Whisper.Language == "" {
		c.Whisper.Language = "auto"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbePath == "" {
		c.FFmpeg.ProbePath = "ffprobe"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.FFmpeg.Channels == 0 {
		c.FFmpeg.Channels = 1
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "pcm_s16le"
	}
	if c.LLM.BinaryPath == "" {
		c.LLM.BinaryPath = "llama-cli"
	}
	if c.LLM.ContextSize == 0 {
		c.LLM.ContextSize = 4096
	}
	if c.LLM.Threads == 0 {
		c.LLM.Threads = 8
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1024
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.TopP == 0 {
		c.LLM.TopP = 0.9
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Summary.MaxWords == 0 {
		c.Summary.MaxWords = 500
	}
	if c.Summary.MinWords == 0 {
		c.Summary.MinWords = 100
	}
	if c.Summary.Style == "" {
		c.Summary.Style = "concise"
	}
	if c.Summary.ChunkBudget == 0 {
		c.Summary.ChunkBudget = 2000
	}
	if c.Summary.MaxReduceDepth == 0 {
		c.Summary.MaxReduceDepth = 4
	}
	if c.Video.MaxSizeMB == 0 {
		c.Video.MaxSizeMB = 2048
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Database == "" {
		c.Paths.Database = "data/vidsum.db"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.RequestsPerMinute == 0 {
		c.Server.RequestsPerMinute = 60
	}
	if c.Server.Burst == 0 {
		c.Server.Burst = 10
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}

// applyEnv overlays secrets that should not live in the config file.
func (c *Config) applyEnv() {
	if keys := os.Getenv("GEMINI_API_KEYS"); keys != "" {
		var parsed []string
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				parsed = append(parsed, k)
			}
		}
		if len(parsed) > 0 {
			c.Gemini.APIKeys = parsed
		}
	}
}
