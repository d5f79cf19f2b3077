package strategy

import (
	"math"

	"github.com/elci-group/babymode/internal/segment"
)

// VolumeReduction lowers the gain inside each censored window, fading
// linearly down to the configured volume over the first FadeDuration seconds
// and back to full volume over the last FadeDuration seconds. Windows shorter
// than twice the fade length are attenuated flat, with no fades.
type VolumeReduction struct{}

// NewVolumeReduction returns the volume reduction strategy.
func NewVolumeReduction() *VolumeReduction { return &VolumeReduction{} }

func (*VolumeReduction) Name() string { return "volume_reduction" }

func (*VolumeReduction) Description() string {
	return "Reduce volume during profanity with smooth fading"
}

func (*VolumeReduction) ValidateConfig(cfg Config) error {
	if err := validateVolume(cfg); err != nil {
		return err
	}
	return validateFade(cfg)
}

func (*VolumeReduction) Apply(inputPath, outputPath string, segments []segment.Segment, cfg Config) error {
	if len(segments) == 0 {
		return copyFile(inputPath, outputPath)
	}

	buf, depth, err := readWAV(inputPath)
	if err != nil {
		return err
	}

	ch := buf.Format.NumChannels
	rate := float64(buf.Format.SampleRate)
	for _, seg := range segments {
		start, end := frameWindow(buf, seg)
		if end <= start {
			continue
		}

		fadeFrames := int(cfg.FadeDuration * rate)
		if 2*fadeFrames > end-start {
			fadeFrames = 0
		}

		for f := start; f < end; f++ {
			gain := cfg.Volume
			if fadeFrames > 0 {
				switch {
				case f-start < fadeFrames:
					t := float64(f-start) / float64(fadeFrames)
					gain = 1 + t*(cfg.Volume-1)
				case end-f <= fadeFrames:
					t := float64(end-f) / float64(fadeFrames)
					gain = 1 + t*(cfg.Volume-1)
				}
			}
			for c := 0; c < ch; c++ {
				idx := f*ch + c
				buf.Data[idx] = int(math.Round(float64(buf.Data[idx]) * gain))
			}
		}
	}
	return writeWAV(outputPath, buf, depth)
}
