package transcribe

import (
	"context"
	_ "embed"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed assets/faster_whisper.py
var whisperScript []byte

// fallbackConfidence is assigned to words whose timing had to be estimated
// because the engine returned no word-level timestamps.
const fallbackConfidence = 0.8

// WhisperEngine transcribes audio with faster-whisper through a python3
// helper script.
type WhisperEngine struct {
	model  string
	python string
}

// NewWhisperEngine creates an engine for the given model size (tiny, base,
// small, medium, large). The python interpreter can be overridden with the
// BABYMODE_PY environment variable.
func NewWhisperEngine(model string) *WhisperEngine {
	python := os.Getenv("BABYMODE_PY")
	if python == "" {
		python = "python3"
	}
	return &WhisperEngine{model: model, python: python}
}

type whisperWord struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability"`
}

type whisperSegment struct {
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Text  string        `json:"text"`
	Words []whisperWord `json:"words"`
}

// Transcribe runs the helper script and parses its word-level JSON output.
// A non-zero exit surfaces the script's stderr verbatim.
func (w *WhisperEngine) Transcribe(ctx context.Context, audioPath string) ([]Word, error) {
	scriptPath := filepath.Join(os.TempDir(), "babymode_faster_whisper.py")
	if err := os.WriteFile(scriptPath, whisperScript, 0o755); err != nil {
		return nil, &EngineError{Engine: "faster-whisper", Err: err}
	}
	defer os.Remove(scriptPath)

	log.Debug().
		Str("model", w.model).
		Str("audio", audioPath).
		Msg("Running faster-whisper transcription")

	cmd := exec.CommandContext(ctx, w.python, scriptPath, w.model, audioPath)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, &EngineError{
				Engine: "faster-whisper",
				Stderr: strings.TrimSpace(string(ee.Stderr)),
				Err:    err,
			}
		}
		return nil, &EngineError{Engine: "faster-whisper", Err: err}
	}

	var segments []whisperSegment
	if err := json.Unmarshal(out, &segments); err != nil {
		return nil, &EngineError{Engine: "faster-whisper", Err: err}
	}
	return wordsFromSegments(segments), nil
}

// wordsFromSegments flattens whisper segments to words. When a segment
// carries no word-level timestamps the words are spread evenly across the
// segment span with a fixed confidence.
func wordsFromSegments(segments []whisperSegment) []Word {
	var words []Word
	for _, seg := range segments {
		if len(seg.Words) > 0 {
			for _, w := range seg.Words {
				words = append(words, Word{
					Text:       strings.TrimSpace(w.Word),
					Start:      w.Start,
					End:        w.End,
					Confidence: w.Probability,
				})
			}
			continue
		}

		fields := strings.Fields(seg.Text)
		if len(fields) == 0 {
			continue
		}
		span := seg.End - seg.Start
		n := float64(len(fields))
		for i, text := range fields {
			words = append(words, Word{
				Text:       text,
				Start:      seg.Start + float64(i)/n*span,
				End:        seg.Start + float64(i+1)/n*span,
				Confidence: fallbackConfidence,
			})
		}
	}
	return words
}
