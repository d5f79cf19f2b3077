// Package config holds the pipeline configuration and its validation
// contract. Invalid configuration is rejected before any processing begins.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/elci-group/babymode/internal/strategy"
)

// ValidationError reports a configuration field rejected at build time.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration error in %q: %s", e.Field, e.Message)
}

// Engines supported for transcription.
const (
	EngineWhisper = "whisper"
	EngineGoogle  = "google"
)

// WhisperModels lists the accepted faster-whisper model sizes.
var WhisperModels = []string{"tiny", "base", "small", "medium", "large"}

// DefaultBlockList is the block list used when none is configured.
var DefaultBlockList = []string{
	"fuck", "shit", "damn", "hell", "ass", "bitch", "bastard",
}

// KafkaConfig configures the censor event publisher.
type KafkaConfig struct {
	Enabled         bool
	Brokers         []string
	TopicDetections string
	TopicRuns       string
	Principal       string
}

// Config drives one censoring run.
type Config struct {
	InputFile  string
	OutputFile string

	Engine       string // whisper|google
	WhisperModel string // tiny|base|small|medium|large

	Strategy  string
	BlockList []string
	MergeGap  float64 // seconds between detections that still merge
	Padding   float64 // seconds added on both sides of each segment

	Censor strategy.Config

	LogLevel    string
	MetricsAddr string // empty disables the observability HTTP server
	ReportDB    string // empty disables the SQLite audit store
	Kafka       KafkaConfig
}

// Default returns the configuration all runs start from.
func Default() Config {
	return Config{
		Engine:       EngineWhisper,
		WhisperModel: "base",
		Strategy:     "silence",
		BlockList:    append([]string(nil), DefaultBlockList...),
		MergeGap:     0.5,
		Padding:      0.1,
		Censor:       strategy.DefaultConfig(),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		Kafka: KafkaConfig{
			TopicDetections: "censor.detections",
			TopicRuns:       "censor.runs",
			Principal:       "svc-babymode",
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// NormalizeBlockList trims and lowercases entries, dropping empties.
func NormalizeBlockList(words []string) []string {
	normalized := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			normalized = append(normalized, w)
		}
	}
	return normalized
}

// Validate rejects configuration the pipeline cannot run with. All failures
// are fatal; nothing is processed after a validation error.
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return &ValidationError{Field: "input_file", Message: "input file is required"}
	}
	if len(c.BlockList) == 0 {
		return &ValidationError{Field: "block_list", Message: "block list cannot be empty"}
	}
	if c.MergeGap < 0 {
		return &ValidationError{Field: "merge_gap", Message: fmt.Sprintf("merge gap must be non-negative, got %v", c.MergeGap)}
	}
	if c.Padding < 0 {
		return &ValidationError{Field: "padding", Message: fmt.Sprintf("padding must be non-negative, got %v", c.Padding)}
	}
	if c.Censor.Volume < 0 || c.Censor.Volume > 1 {
		return &ValidationError{Field: "volume", Message: fmt.Sprintf("volume must be between 0.0 and 1.0, got %v", c.Censor.Volume)}
	}
	if c.Censor.FadeDuration < 0 || c.Censor.FadeDuration > 5 {
		return &ValidationError{Field: "fade_duration", Message: fmt.Sprintf("fade duration must be between 0.0 and 5.0 seconds, got %v", c.Censor.FadeDuration)}
	}
	if c.Engine != EngineWhisper && c.Engine != EngineGoogle {
		return &ValidationError{Field: "engine", Message: fmt.Sprintf("unknown engine %q, valid options: whisper, google", c.Engine)}
	}
	if !validWhisperModel(c.WhisperModel) {
		return &ValidationError{
			Field:   "whisper_model",
			Message: fmt.Sprintf("invalid model %q, valid options: %s", c.WhisperModel, strings.Join(WhisperModels, ", ")),
		}
	}
	return nil
}

func validWhisperModel(model string) bool {
	for _, m := range WhisperModels {
		if m == model {
			return true
		}
	}
	return false
}

// EnsureOutputFile fills in the default output name, <stem>_censored.<ext>,
// next to the input file.
func (c *Config) EnsureOutputFile() {
	if c.OutputFile != "" {
		return
	}
	ext := filepath.Ext(c.InputFile)
	if ext == "" {
		ext = ".mp4"
	}
	c.OutputFile = strings.TrimSuffix(c.InputFile, ext) + "_censored" + ext
}
