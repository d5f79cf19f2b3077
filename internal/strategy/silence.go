package strategy

import "github.com/elci-group/babymode/internal/segment"

// Silence replaces each censored window with digital silence.
type Silence struct{}

// NewSilence returns the silence strategy.
func NewSilence() *Silence { return &Silence{} }

func (*Silence) Name() string { return "silence" }

func (*Silence) Description() string { return "Replace profanity with complete silence" }

func (*Silence) ValidateConfig(Config) error { return nil }

func (*Silence) Apply(inputPath, outputPath string, segments []segment.Segment, _ Config) error {
	if len(segments) == 0 {
		return copyFile(inputPath, outputPath)
	}

	buf, depth, err := readWAV(inputPath)
	if err != nil {
		return err
	}

	ch := buf.Format.NumChannels
	for _, seg := range segments {
		start, end := frameWindow(buf, seg)
		for i := start * ch; i < end*ch; i++ {
			buf.Data[i] = 0
		}
	}
	return writeWAV(outputPath, buf, depth)
}
