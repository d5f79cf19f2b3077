// Package models defines the transcript data structures shared across the pipeline.
package models

// Token is one transcribed word with timing (seconds) and confidence, as
// produced by a transcription engine. Tokens live for a single run.
type Token struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Detection is a Token annotated with the classifier verdict. Immutable once
// created.
type Detection struct {
	Token
	Blocked bool `json:"blocked"`
}
