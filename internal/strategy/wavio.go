package strategy

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/elci-group/babymode/internal/segment"
)

// readWAV decodes the full PCM content of a WAV file. It returns the sample
// buffer and the source bit depth so the output can be re-encoded in the same
// sample format.
func readWAV(path string) (*audio.IntBuffer, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%s: not a valid WAV file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("read PCM buffer: %w", err)
	}
	return buf, int(dec.BitDepth), nil
}

// writeWAV encodes buf to path at the given bit depth, preserving the sample
// rate and channel count of the source.
func writeWAV(path string, buf *audio.IntBuffer, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, 1)
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode WAV: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// copyFile is the identity transform used when there is nothing to censor.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// frameWindow maps a time window onto [start,end) frame indexes, clamped to
// the buffer bounds.
func frameWindow(buf *audio.IntBuffer, seg segment.Segment) (int, int) {
	rate := float64(buf.Format.SampleRate)
	frames := len(buf.Data) / buf.Format.NumChannels

	start := int(seg.Start * rate)
	end := int(seg.End * rate)
	if start < 0 {
		start = 0
	}
	if start > frames {
		start = frames
	}
	if end > frames {
		end = frames
	}
	if end < start {
		end = start
	}
	return start, end
}

// fullScale returns the positive full-scale amplitude for a bit depth.
func fullScale(bitDepth int) float64 {
	return float64(int(1)<<(bitDepth-1)) - 1
}
