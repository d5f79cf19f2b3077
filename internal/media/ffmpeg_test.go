package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseFrameRate(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 29.97002997002997},
		{"25", 25},
		{"0/0", 0},
		{"garbage", 0},
	}
	for _, c := range cases {
		if got := parseFrameRate(c.in); got != c.want {
			t.Errorf("parseFrameRate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestValidateVideoFile_SupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, []byte("not really video"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateVideoFile(path); err != nil {
		t.Errorf("expected .mp4 to validate, got %v", err)
	}

	upper := filepath.Join(dir, "clip.MKV")
	if err := os.WriteFile(upper, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateVideoFile(upper); err != nil {
		t.Errorf("extension check must be case-insensitive, got %v", err)
	}
}

func TestValidateVideoFile_Rejections(t *testing.T) {
	dir := t.TempDir()

	if err := ValidateVideoFile(filepath.Join(dir, "missing.mp4")); err == nil {
		t.Error("expected error for missing file")
	}

	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateVideoFile(txt); err == nil {
		t.Error("expected error for unsupported extension")
	}

	if err := ValidateVideoFile(dir); err == nil {
		t.Error("expected error for directory")
	}
}

func TestToolError_Message(t *testing.T) {
	base := errors.New("exit status 1")

	e := &ToolError{Tool: "ffmpeg", Stderr: "unknown codec", Err: base}
	if got := e.Error(); got == "" || !errors.Is(e, base) {
		t.Errorf("unexpected error behavior: %q", got)
	}

	noStderr := &ToolError{Tool: "ffprobe", Err: base}
	if noStderr.Error() == e.Error() {
		t.Error("expected distinct messages with and without stderr")
	}
}
