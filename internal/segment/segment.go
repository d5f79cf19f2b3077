// Package segment turns word-level detections into padded, censorable time
// windows: gap-merging, symmetric padding and plan statistics.
package segment

import (
	"sort"

	"github.com/elci-group/babymode/internal/models"
)

// Segment is a contiguous time window, in seconds, subject to censoring.
// Invariant: Start <= End and Start >= 0.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the length of the window in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Merge collapses detections into a minimal ordered set of non-overlapping
// segments, merging any pair whose gap is at most gap seconds. Detections are
// stably sorted by start time, so original order breaks ties. The caller is
// expected to pass only blocked detections; Merge does not consult the flag.
//
// Output segments are strictly ordered by start time, and adjacent output
// segments are always separated by more than gap.
func Merge(detections []models.Detection, gap float64) []Segment {
	if len(detections) == 0 {
		return nil
	}

	sorted := make([]models.Detection, len(detections))
	copy(sorted, detections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	segments := make([]Segment, 0, len(sorted))
	cur := Segment{Start: sorted[0].Start, End: sorted[0].End}
	for _, d := range sorted[1:] {
		if d.Start <= cur.End+gap {
			if d.End > cur.End {
				cur.End = d.End
			}
			continue
		}
		segments = append(segments, cur)
		cur = Segment{Start: d.Start, End: d.End}
	}
	return append(segments, cur)
}

// Pad expands each segment symmetrically by margin seconds, clamping the
// start at the timeline origin. Segments are padded independently; windows
// that overlap after padding are not re-merged. Order and count are
// preserved.
func Pad(segments []Segment, margin float64) []Segment {
	if segments == nil {
		return nil
	}
	padded := make([]Segment, len(segments))
	for i, s := range segments {
		start := s.Start - margin
		if start < 0 {
			start = 0
		}
		padded[i] = Segment{Start: start, End: s.End + margin}
	}
	return padded
}

// Stats summarizes how much of a timeline a censoring plan touches.
type Stats struct {
	TotalDetections int     `json:"totalDetections"`
	MergedSegments  int     `json:"mergedSegments"`
	CensoredSeconds float64 `json:"censoredSeconds"`
	AudioSeconds    float64 `json:"audioSeconds"`
	PercentCensored float64 `json:"percentCensored"`
}

// ComputeStats derives plan statistics. audioSeconds may be zero when the
// total duration is unknown; the percentage is reported as zero in that case.
func ComputeStats(detections int, segments []Segment, audioSeconds float64) Stats {
	var censored float64
	for _, s := range segments {
		censored += s.Duration()
	}

	var percent float64
	if audioSeconds > 0 {
		percent = censored / audioSeconds * 100
	}

	return Stats{
		TotalDetections: detections,
		MergedSegments:  len(segments),
		CensoredSeconds: censored,
		AudioSeconds:    audioSeconds,
		PercentCensored: percent,
	}
}
