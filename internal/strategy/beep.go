package strategy

import (
	"math"

	"github.com/elci-group/babymode/internal/segment"
)

// beepAmplitude scales the tone relative to full scale; full-scale beeps are
// unpleasant and clip once muxed with compressed codecs.
const beepAmplitude = 0.4

// Beep replaces each censored window with a generated sine tone. The original
// content inside the window is muted.
type Beep struct{}

// NewBeep returns the beep strategy.
func NewBeep() *Beep { return &Beep{} }

func (*Beep) Name() string { return "beep" }

func (*Beep) Description() string { return "Replace profanity with beep sounds" }

func (*Beep) ValidateConfig(cfg Config) error {
	if cfg.BeepFrequency != 0 && (cfg.BeepFrequency < 100 || cfg.BeepFrequency > 10000) {
		return &ConfigError{
			Field:   "beep_frequency",
			Message: "beep frequency must be between 100 and 10000 Hz",
		}
	}
	return nil
}

func (*Beep) Apply(inputPath, outputPath string, segments []segment.Segment, cfg Config) error {
	if len(segments) == 0 {
		return copyFile(inputPath, outputPath)
	}

	freq := cfg.BeepFrequency
	if freq == 0 {
		freq = 1000
	}

	buf, depth, err := readWAV(inputPath)
	if err != nil {
		return err
	}

	ch := buf.Format.NumChannels
	rate := float64(buf.Format.SampleRate)
	amp := beepAmplitude * fullScale(depth)
	for _, seg := range segments {
		start, end := frameWindow(buf, seg)
		for f := start; f < end; f++ {
			v := int(math.Round(amp * math.Sin(2*math.Pi*freq*float64(f-start)/rate)))
			for c := 0; c < ch; c++ {
				buf.Data[f*ch+c] = v
			}
		}
	}
	return writeWAV(outputPath, buf, depth)
}
