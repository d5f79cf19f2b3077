// Package media wraps the external ffmpeg/ffprobe tooling used to extract,
// probe, and remux audio tracks.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/elci-group/babymode/internal/observability/metrics"
)

// ToolError is an external media tool failure. Stderr carries the tool's
// diagnostic output verbatim.
type ToolError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v\nstderr: %s", e.Tool, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// SupportedExtensions lists the container formats accepted as input.
var SupportedExtensions = []string{
	".mp4", ".avi", ".mov", ".mkv", ".wmv", ".flv", ".webm", ".m4v", ".3gp", ".mpg", ".mpeg",
}

// ValidateVideoFile checks that the input exists and carries a supported
// container extension.
func ValidateVideoFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input file %s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return nil
		}
	}
	return fmt.Errorf("unsupported video format %q (supported: %s)",
		ext, strings.Join(SupportedExtensions, ", "))
}

// ValidateTools verifies that the required external programs are on PATH.
func ValidateTools(ctx context.Context) error {
	tools := map[string]string{
		"ffmpeg":  "install ffmpeg (e.g. apt install ffmpeg)",
		"ffprobe": "install ffmpeg (e.g. apt install ffmpeg)",
		"python3": "install python3 and the faster-whisper package",
	}
	for tool, hint := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("required tool %q not found: %s", tool, hint)
		}
	}
	return nil
}

// ExtractAudio pulls the audio track of videoPath into a 16 kHz mono
// 16-bit PCM WAV under tmpDir and returns its path.
func ExtractAudio(ctx context.Context, videoPath, tmpDir string) (string, error) {
	out := filepath.Join(tmpDir, "extracted_audio.wav")
	args := []string{
		"-y",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		out,
	}
	start := time.Now()
	if err := runTool(ctx, "ffmpeg", args); err != nil {
		return "", err
	}
	metrics.DefaultMetrics.ObserveMediaTool("extract", start)
	log.Debug().Str("audio", out).Msg("Extracted audio track")
	return out, nil
}

// Mux replaces the audio track of videoPath with audioPath, copying the
// video stream untouched.
func Mux(ctx context.Context, videoPath, audioPath, outputPath string) error {
	args := []string{
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-shortest",
		"-y",
		outputPath,
	}
	start := time.Now()
	if err := runTool(ctx, "ffmpeg", args); err != nil {
		return err
	}
	metrics.DefaultMetrics.ObserveMediaTool("mux", start)
	log.Debug().Str("output", outputPath).Msg("Muxed censored audio into video")
	return nil
}

// Metadata describes the media container as reported by ffprobe.
type Metadata struct {
	Duration float64
	Width    int
	Height   int
	FPS      float64
	HasAudio bool
	Codec    string
	BitRate  int64
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Probe inspects the file with ffprobe. Audio-only files are fine; video
// fields stay zero.
func Probe(ctx context.Context, path string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, &ToolError{Tool: "ffprobe", Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}

	var po probeOutput
	if err := json.Unmarshal(out, &po); err != nil {
		return nil, &ToolError{Tool: "ffprobe", Err: err}
	}

	md := &Metadata{}
	md.Duration, _ = strconv.ParseFloat(po.Format.Duration, 64)
	md.BitRate, _ = strconv.ParseInt(po.Format.BitRate, 10, 64)
	for _, s := range po.Streams {
		switch s.CodecType {
		case "video":
			md.Width = s.Width
			md.Height = s.Height
			md.Codec = s.CodecName
			md.FPS = parseFrameRate(s.RFrameRate)
		case "audio":
			md.HasAudio = true
		}
	}
	return md, nil
}

// ProbeDuration returns only the container duration in seconds.
func ProbeDuration(ctx context.Context, path string) (float64, error) {
	md, err := Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	return md.Duration, nil
}

// parseFrameRate converts an ffprobe rational like "30000/1001" to a float.
func parseFrameRate(r string) float64 {
	parts := strings.SplitN(r, "/", 2)
	if len(parts) != 2 {
		f, _ := strconv.ParseFloat(r, 64)
		return f
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}

func runTool(ctx context.Context, tool string, args []string) error {
	cmd := exec.CommandContext(ctx, tool, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &ToolError{Tool: tool, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return nil
}
