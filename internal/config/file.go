package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// File mirrors the on-disk configuration format. All fields are optional;
// only the ones present override the current configuration.
type File struct {
	Engine        *string            `yaml:"engine" json:"engine"`
	WhisperModel  *string            `yaml:"whisper_model" json:"whisper_model"`
	Strategy      *string            `yaml:"strategy" json:"strategy"`
	CensorVolume  *float64           `yaml:"censor_volume" json:"censor_volume"`
	FadeDuration  *float64           `yaml:"fade_duration" json:"fade_duration"`
	BeepFrequency *float64           `yaml:"beep_frequency" json:"beep_frequency"`
	MergeGap      *float64           `yaml:"merge_gap" json:"merge_gap"`
	Padding       *float64           `yaml:"padding" json:"padding"`
	BlockList     []string           `yaml:"block_list" json:"block_list"`
	Profiles      map[string]Profile `yaml:"profiles" json:"profiles"`
}

// Profile is a named bundle of overrides selected with --profile.
type Profile struct {
	Description  string   `yaml:"description" json:"description"`
	Strategy     *string  `yaml:"strategy" json:"strategy"`
	WhisperModel *string  `yaml:"whisper_model" json:"whisper_model"`
	CensorVolume *float64 `yaml:"censor_volume" json:"censor_volume"`
	FadeDuration *float64 `yaml:"fade_duration" json:"fade_duration"`
	BlockList    []string `yaml:"block_list" json:"block_list"`
}

// LoadFile reads a configuration file, choosing the parser by extension.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, &ValidationError{Field: "config_file", Message: fmt.Sprintf("failed to parse YAML config: %v", err)}
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, &ValidationError{Field: "config_file", Message: fmt.Sprintf("failed to parse JSON config: %v", err)}
		}
	default:
		return nil, &ValidationError{
			Field:   "config_file",
			Message: fmt.Sprintf("unsupported config extension %q, expected .yaml, .yml or .json", ext),
		}
	}
	return &f, nil
}

// LoadDefaultFile probes the default config locations and loads the first
// file found. Returns nil when none exists.
func LoadDefaultFile() (*File, error) {
	candidates := []string{"babymode.yaml", "babymode.yml", "babymode.json"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".config", "babymode", "config.yaml"),
			filepath.Join(home, ".babymode.yaml"),
		)
	}
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return LoadFile(p)
		}
	}
	return nil, nil
}

// Builtin returns the default profiles available without a config file.
func Builtin() *File {
	strict := "silence"
	mild := "volume_reduction"
	tiny := "tiny"
	small := "small"
	zero := 0.0
	third := 0.3
	shortFade := 0.1
	longFade := 0.3

	return &File{
		Profiles: map[string]Profile{
			"strict": {
				Description:  "Strict censoring with complete silence",
				Strategy:     &strict,
				CensorVolume: &zero,
				FadeDuration: &shortFade,
				BlockList: []string{
					"fuck", "shit", "damn", "hell", "ass", "bitch",
					"bastard", "crap", "piss",
				},
			},
			"mild": {
				Description:  "Mild censoring for minor profanity only",
				Strategy:     &mild,
				WhisperModel: &tiny,
				CensorVolume: &third,
				FadeDuration: &longFade,
				BlockList:    []string{"fuck", "shit"},
			},
			"family": {
				Description:  "Family-friendly censoring profile",
				WhisperModel: &small,
				BlockList:    append([]string(nil), DefaultBlockList...),
			},
		},
	}
}

// Apply overrides cfg with the fields present in the file.
func (f *File) Apply(cfg *Config) {
	if f.Engine != nil {
		cfg.Engine = *f.Engine
	}
	if f.WhisperModel != nil {
		cfg.WhisperModel = *f.WhisperModel
	}
	if f.Strategy != nil {
		cfg.Strategy = *f.Strategy
	}
	if f.CensorVolume != nil {
		cfg.Censor.Volume = *f.CensorVolume
	}
	if f.FadeDuration != nil {
		cfg.Censor.FadeDuration = *f.FadeDuration
	}
	if f.BeepFrequency != nil {
		cfg.Censor.BeepFrequency = *f.BeepFrequency
	}
	if f.MergeGap != nil {
		cfg.MergeGap = *f.MergeGap
	}
	if f.Padding != nil {
		cfg.Padding = *f.Padding
	}
	if len(f.BlockList) > 0 {
		cfg.BlockList = NormalizeBlockList(f.BlockList)
	}
}

// ApplyProfile overrides cfg with a named profile from the file.
func (f *File) ApplyProfile(name string, cfg *Config) error {
	p, ok := f.Profiles[name]
	if !ok {
		return &ValidationError{Field: "profile", Message: fmt.Sprintf("unknown profile %q", name)}
	}

	if p.Strategy != nil {
		cfg.Strategy = *p.Strategy
	}
	if p.WhisperModel != nil {
		cfg.WhisperModel = *p.WhisperModel
	}
	if p.CensorVolume != nil {
		cfg.Censor.Volume = *p.CensorVolume
	}
	if p.FadeDuration != nil {
		cfg.Censor.FadeDuration = *p.FadeDuration
	}
	if len(p.BlockList) > 0 {
		cfg.BlockList = NormalizeBlockList(p.BlockList)
	}
	return nil
}

// ProfileNames returns the profile names sorted for stable listing.
func (f *File) ProfileNames() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
