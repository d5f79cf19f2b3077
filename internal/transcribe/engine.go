// Package transcribe defines the interface to speech-to-text collaborators
// and the parsing of their word-level output.
package transcribe

import (
	"context"
	"fmt"
)

// Word is one transcribed word with timing in seconds and a confidence in
// [0,1].
type Word struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Engine produces word-level timestamps for an audio file. Implementations
// wrap external collaborators (subprocess or RPC) and must honor ctx
// cancellation.
type Engine interface {
	Transcribe(ctx context.Context, audioPath string) ([]Word, error)
}

// EngineError is a transcription collaborator failure. Stderr carries the
// tool's diagnostic output verbatim for operator visibility.
type EngineError struct {
	Engine string
	Stderr string
	Err    error
}

func (e *EngineError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v\nstderr: %s", e.Engine, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Engine, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }
