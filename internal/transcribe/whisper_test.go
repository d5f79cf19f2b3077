package transcribe

import (
	"errors"
	"math"
	"testing"
)

func TestWordsFromSegments_WordTimestamps(t *testing.T) {
	segments := []whisperSegment{
		{
			Start: 0, End: 1.5, Text: " well fuck",
			Words: []whisperWord{
				{Word: " well", Start: 0.0, End: 0.4, Probability: 0.91},
				{Word: " fuck", Start: 0.6, End: 1.1, Probability: 0.97},
			},
		},
	}

	words := wordsFromSegments(segments)
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Text != "well" || words[1].Text != "fuck" {
		t.Errorf("expected trimmed words, got %q %q", words[0].Text, words[1].Text)
	}
	if words[1].Start != 0.6 || words[1].End != 1.1 || words[1].Confidence != 0.97 {
		t.Errorf("word timing not preserved: %+v", words[1])
	}
}

func TestWordsFromSegments_EvenDivisionFallback(t *testing.T) {
	segments := []whisperSegment{
		{Start: 2.0, End: 4.0, Text: "one two three four"},
	}

	words := wordsFromSegments(segments)
	if len(words) != 4 {
		t.Fatalf("expected 4 words, got %d", len(words))
	}

	for i, w := range words {
		wantStart := 2.0 + float64(i)*0.5
		wantEnd := wantStart + 0.5
		if math.Abs(w.Start-wantStart) > 1e-9 || math.Abs(w.End-wantEnd) > 1e-9 {
			t.Errorf("word %d: got [%v, %v], want [%v, %v]", i, w.Start, w.End, wantStart, wantEnd)
		}
		if w.Confidence != fallbackConfidence {
			t.Errorf("word %d: expected fallback confidence %v, got %v", i, fallbackConfidence, w.Confidence)
		}
	}
	if words[3].End != 4.0 {
		t.Errorf("last word must end at the segment end, got %v", words[3].End)
	}
}

func TestWordsFromSegments_EmptySegmentSkipped(t *testing.T) {
	segments := []whisperSegment{
		{Start: 0, End: 1, Text: "   "},
		{Start: 1, End: 2, Text: "word"},
	}
	words := wordsFromSegments(segments)
	if len(words) != 1 {
		t.Fatalf("expected 1 word, got %d", len(words))
	}
	if words[0].Text != "word" {
		t.Errorf("unexpected word %q", words[0].Text)
	}
}

func TestEngineError_Unwrap(t *testing.T) {
	base := errors.New("exit status 2")
	e := &EngineError{Engine: "faster-whisper", Stderr: "model not found", Err: base}

	if !errors.Is(e, base) {
		t.Error("expected EngineError to unwrap to the cause")
	}
	withStderr := e.Error()
	e.Stderr = ""
	if e.Error() == withStderr {
		t.Error("expected stderr to appear in the message")
	}
}
