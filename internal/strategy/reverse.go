package strategy

import "github.com/elci-group/babymode/internal/segment"

// Reverse plays each censored window backwards in place, leaving the
// surrounding audio untouched. Seam behavior at the window edges is a small
// discontinuity; no crossfade is applied.
type Reverse struct{}

// NewReverse returns the reverse strategy.
func NewReverse() *Reverse { return &Reverse{} }

func (*Reverse) Name() string { return "reverse" }

func (*Reverse) Description() string { return "Play profanity segments in reverse" }

func (*Reverse) ValidateConfig(Config) error { return nil }

func (*Reverse) Apply(inputPath, outputPath string, segments []segment.Segment, _ Config) error {
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
		for i, j := start, end-1; i < j; i, j = i+1, j-1 {
			for c := 0; c < ch; c++ {
				buf.Data[i*ch+c], buf.Data[j*ch+c] = buf.Data[j*ch+c], buf.Data[i*ch+c]
			}
		}
	}
	return writeWAV(outputPath, buf, depth)
}
