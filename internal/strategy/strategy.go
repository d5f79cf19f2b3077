// Package strategy implements interchangeable censoring algorithms over PCM
// WAV audio, dispatched through a name-keyed registry.
package strategy

import (
	"fmt"

	"github.com/elci-group/babymode/internal/segment"
)

// Config is shared across all strategies. Each strategy validates only the
// subset of fields it uses.
type Config struct {
	// Volume is the sustained gain inside a censored window, in [0,1].
	Volume float64 `json:"volume" yaml:"volume"`
	// FadeDuration is the fade in/out length in seconds, in [0,5].
	FadeDuration float64 `json:"fade_duration" yaml:"fade_duration"`
	// ReplacementAudio optionally points at an audio file used by custom
	// strategies. The built-ins ignore it.
	ReplacementAudio string `json:"replacement_audio,omitempty" yaml:"replacement_audio,omitempty"`
	// BeepFrequency is the sine tone frequency in Hz. Zero means the 1000 Hz
	// default; non-zero values must fall in [100,10000].
	BeepFrequency float64 `json:"beep_frequency,omitempty" yaml:"beep_frequency,omitempty"`
	// CustomParams is an open mapping for externally registered strategies.
	CustomParams map[string]any `json:"custom_params,omitempty" yaml:"custom_params,omitempty"`
}

// DefaultConfig returns the configuration the built-in strategies start from.
func DefaultConfig() Config {
	return Config{
		Volume:        0.1,
		FadeDuration:  0.2,
		BeepFrequency: 1000,
	}
}

// ConfigError reports a strategy configuration field rejected before any
// processing begins.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Message)
}

// UnknownStrategyError is returned when a requested strategy name has no
// registry entry.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown censoring strategy: %s", e.Name)
}

// Strategy rewrites the audio inside the given time windows and leaves all
// other audio untouched.
type Strategy interface {
	// Name is the unique registry key.
	Name() string
	// Description is a human-readable summary.
	Description() string
	// ValidateConfig rejects configuration the strategy cannot apply. It runs
	// before any processing begins; the default for strategies without
	// numeric constraints is to accept everything.
	ValidateConfig(cfg Config) error
	// Apply reads the WAV at inputPath and writes a censored copy to
	// outputPath, altering exactly the windows named in segments. The input
	// is never mutated; empty segments degenerate to an identity copy.
	Apply(inputPath, outputPath string, segments []segment.Segment, cfg Config) error
}

func validateVolume(cfg Config) error {
	if cfg.Volume < 0 || cfg.Volume > 1 {
		return &ConfigError{Field: "volume", Message: fmt.Sprintf("volume must be between 0.0 and 1.0, got %v", cfg.Volume)}
	}
	return nil
}

func validateFade(cfg Config) error {
	if cfg.FadeDuration < 0 || cfg.FadeDuration > 5 {
		return &ConfigError{Field: "fade_duration", Message: fmt.Sprintf("fade duration must be between 0.0 and 5.0 seconds, got %v", cfg.FadeDuration)}
	}
	return nil
}
