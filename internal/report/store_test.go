package report

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/elci-group/babymode/internal/segment"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "report.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordRun_AndReadBack(t *testing.T) {
	s := openTestStore(t)

	segments := []segment.Segment{
		{Start: 0.4, End: 1.7},
		{Start: 5.0, End: 5.8},
	}
	run := Run{
		Input:           "movie.mp4",
		Output:          "movie_censored.mp4",
		Strategy:        "silence",
		Engine:          "whisper",
		Detections:      3,
		Segments:        2,
		CensoredSeconds: 2.1,
		AudioSeconds:    60,
		Success:         true,
	}

	id, err := s.RecordRun(run, segments)
	if err != nil {
		t.Fatalf("record run: %v", err)
	}
	if id == 0 {
		t.Error("expected a non-zero run ID")
	}

	got, err := s.SegmentsForRun(id)
	if err != nil {
		t.Fatalf("read segments: %v", err)
	}
	if len(got) != len(segments) {
		t.Fatalf("expected %d segments, got %d", len(segments), len(got))
	}
	for i := range segments {
		if math.Abs(got[i].Start-segments[i].Start) > 1e-9 ||
			math.Abs(got[i].End-segments[i].End) > 1e-9 {
			t.Errorf("segment %d mismatch: got %v, want %v", i, got[i], segments[i])
		}
	}
}

func TestRecordRun_FailureRow(t *testing.T) {
	s := openTestStore(t)

	run := Run{
		Input:    "movie.mp4",
		Output:   "movie_censored.mp4",
		Strategy: "beep",
		Engine:   "whisper",
		Success:  false,
		Error:    "beep frequency out of range",
	}
	if _, err := s.RecordRun(run, nil); err != nil {
		t.Fatalf("record failed run: %v", err)
	}

	count, err := s.RunCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 run, got %d", count)
	}
}

func TestRunCount_MultipleRuns(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		run := Run{Input: "a.mp4", Output: "b.mp4", Strategy: "silence", Engine: "whisper", Success: true}
		if _, err := s.RecordRun(run, []segment.Segment{{Start: 0, End: 1}}); err != nil {
			t.Fatal(err)
		}
	}

	count, err := s.RunCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("expected 3 runs, got %d", count)
	}
}

func TestSegmentsForRun_Isolation(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.RecordRun(Run{Input: "a", Output: "b", Strategy: "silence", Engine: "whisper"},
		[]segment.Segment{{Start: 1, End: 2}})
	if err != nil {
		t.Fatal(err)
	}
	id2, err := s.RecordRun(Run{Input: "c", Output: "d", Strategy: "silence", Engine: "whisper"},
		[]segment.Segment{{Start: 3, End: 4}, {Start: 5, End: 6}})
	if err != nil {
		t.Fatal(err)
	}

	got1, err := s.SegmentsForRun(id1)
	if err != nil {
		t.Fatal(err)
	}
	got2, err := s.SegmentsForRun(id2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got1) != 1 || len(got2) != 2 {
		t.Errorf("expected 1 and 2 segments, got %d and %d", len(got1), len(got2))
	}
}
