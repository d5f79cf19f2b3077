package classify

import (
	"testing"

	"github.com/elci-group/babymode/internal/models"
)

var testBlockList = []string{"fuck", "shit", "damn", "hell", "ass"}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"FUCK!", "fuck"},
		{"  Hello,  ", "hello"},
		{"'quoted'", "quoted"},
		{"f**k", "f**k"},
		{"...", ""},
		{"word", "word"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsBlocked_ExactMatch(t *testing.T) {
	if !IsBlocked("fuck", testBlockList) {
		t.Error("expected exact match to be blocked")
	}
	if IsBlocked("hello", testBlockList) {
		t.Error("expected clean word to pass")
	}
}

func TestIsBlocked_NormalizationEquivalence(t *testing.T) {
	variants := []string{"FUCK!", "fuck", "Fuck,", "  fuck  ", "'FUCK'"}
	for _, v := range variants {
		if !IsBlocked(v, testBlockList) {
			t.Errorf("expected %q to classify the same as its normalized form", v)
		}
	}
}

func TestIsBlocked_ShortWordsNeverBlocked(t *testing.T) {
	if IsBlocked("f", []string{"f"}) {
		t.Error("single-character word must never be blocked")
	}
	if IsBlocked("", testBlockList) {
		t.Error("empty word must never be blocked")
	}
}

func TestIsBlocked_StopWordOverride(t *testing.T) {
	// Stop words stay unblocked even when explicitly listed.
	if IsBlocked("a", []string{"a"}) {
		t.Error("stop word 'a' must not be blocked even when listed")
	}
	if IsBlocked("it", []string{"it"}) {
		t.Error("stop word 'it' must not be blocked even when listed")
	}
}

func TestIsBlocked_TwoLetterNonStopWord(t *testing.T) {
	if !IsBlocked("xx", []string{"xx"}) {
		t.Error("two-letter non-stop word listed exactly should be blocked")
	}
}

func TestIsBlocked_SubstringInflections(t *testing.T) {
	if !IsBlocked("fucking", testBlockList) {
		t.Error("expected inflected form to match via substring")
	}
	if !IsBlocked("bullshit", testBlockList) {
		t.Error("expected compound containing a listed word to match")
	}
	// Substring matching requires both sides to be at least four characters.
	if IsBlocked("assassin", []string{"ass"}) {
		t.Error("three-character entry must not substring-match a longer word")
	}
}

func TestIsBlocked_Obfuscation(t *testing.T) {
	cases := []struct {
		word string
		want bool
	}{
		{"f**k", true},
		{"s#it", true},
		{"f@ck", true},
		{"word", false},
		{"w*rd", false},
	}
	for _, c := range cases {
		if got := IsBlocked(c.word, testBlockList); got != c.want {
			t.Errorf("IsBlocked(%q) = %v, want %v", c.word, got, c.want)
		}
	}
}

func TestIsBlocked_ObfuscationNeedsMajority(t *testing.T) {
	// "s**t" vs "shit": positions 0 and 3 agree, wildcards agree, 4/4.
	if !IsBlocked("s**t", []string{"shit"}) {
		t.Error("expected s**t to match shit")
	}
	// "x*yz" vs "fuck": only the wildcard agrees, 1/4 is not a majority.
	if IsBlocked("x*yz", []string{"fuck"}) {
		t.Error("expected x*yz not to match fuck")
	}
}

func TestIsBlocked_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		if !IsBlocked("FUCK!", testBlockList) {
			t.Fatal("classification changed between identical calls")
		}
	}
}

func TestAnnotate_PreservesOrderAndCount(t *testing.T) {
	tokens := []models.Token{
		{Text: "well", Start: 0.0, End: 0.3, Confidence: 0.9},
		{Text: "shit", Start: 0.4, End: 0.8, Confidence: 0.95},
		{Text: "happens", Start: 0.9, End: 1.4, Confidence: 0.9},
	}

	detections := Annotate(tokens, testBlockList)
	if len(detections) != len(tokens) {
		t.Fatalf("expected %d detections, got %d", len(tokens), len(detections))
	}
	for i, d := range detections {
		if d.Text != tokens[i].Text {
			t.Errorf("detection %d out of order: got %q, want %q", i, d.Text, tokens[i].Text)
		}
	}
	if detections[0].Blocked || !detections[1].Blocked || detections[2].Blocked {
		t.Errorf("unexpected blocked flags: %v %v %v",
			detections[0].Blocked, detections[1].Blocked, detections[2].Blocked)
	}
}

func TestBlocked_FiltersFlagged(t *testing.T) {
	tokens := []models.Token{
		{Text: "clean", Start: 0, End: 1},
		{Text: "damn", Start: 1, End: 2},
		{Text: "fine", Start: 2, End: 3},
		{Text: "hell", Start: 3, End: 4},
	}
	blocked := Blocked(Annotate(tokens, testBlockList))
	if len(blocked) != 2 {
		t.Fatalf("expected 2 blocked detections, got %d", len(blocked))
	}
	if blocked[0].Text != "damn" || blocked[1].Text != "hell" {
		t.Errorf("unexpected blocked words: %q, %q", blocked[0].Text, blocked[1].Text)
	}
}
