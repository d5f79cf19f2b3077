package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeTempConfig(t, "babymode.yaml", `
strategy: beep
censor_volume: 0.3
merge_gap: 1.0
block_list:
  - Foo
  - BAR
`)
	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}

	cfg := Default()
	f.Apply(&cfg)

	if cfg.Strategy != "beep" {
		t.Errorf("expected strategy beep, got %s", cfg.Strategy)
	}
	if cfg.Censor.Volume != 0.3 {
		t.Errorf("expected volume 0.3, got %v", cfg.Censor.Volume)
	}
	if cfg.MergeGap != 1.0 {
		t.Errorf("expected gap 1.0, got %v", cfg.MergeGap)
	}
	if len(cfg.BlockList) != 2 || cfg.BlockList[0] != "foo" || cfg.BlockList[1] != "bar" {
		t.Errorf("expected normalized block list [foo bar], got %v", cfg.BlockList)
	}
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeTempConfig(t, "babymode.json", `{"strategy": "reverse", "padding": 0.25}`)
	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}

	cfg := Default()
	f.Apply(&cfg)
	if cfg.Strategy != "reverse" {
		t.Errorf("expected strategy reverse, got %s", cfg.Strategy)
	}
	if cfg.Padding != 0.25 {
		t.Errorf("expected padding 0.25, got %v", cfg.Padding)
	}
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	path := writeTempConfig(t, "babymode.toml", `strategy = "beep"`)
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestLoadFile_MalformedYAML(t *testing.T) {
	path := writeTempConfig(t, "bad.yaml", "strategy: [unclosed")
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestFile_ApplyOnlyOverridesPresentFields(t *testing.T) {
	f := &File{}
	cfg := Default()
	before := cfg

	f.Apply(&cfg)
	if cfg.Strategy != before.Strategy || cfg.MergeGap != before.MergeGap {
		t.Error("empty file must not change the configuration")
	}
}

func TestBuiltinProfiles(t *testing.T) {
	f := Builtin()
	for _, name := range []string{"strict", "mild", "family"} {
		if _, ok := f.Profiles[name]; !ok {
			t.Errorf("expected built-in profile %q", name)
		}
	}
}

func TestApplyProfile(t *testing.T) {
	f := Builtin()
	cfg := Default()

	if err := f.ApplyProfile("mild", &cfg); err != nil {
		t.Fatalf("apply mild profile: %v", err)
	}
	if cfg.Strategy != "volume_reduction" {
		t.Errorf("expected strategy volume_reduction, got %s", cfg.Strategy)
	}
	if cfg.Censor.Volume != 0.3 {
		t.Errorf("expected volume 0.3, got %v", cfg.Censor.Volume)
	}
	if len(cfg.BlockList) != 2 {
		t.Errorf("expected 2-word block list, got %v", cfg.BlockList)
	}
}

func TestApplyProfile_Unknown(t *testing.T) {
	f := Builtin()
	cfg := Default()
	if err := f.ApplyProfile("nope", &cfg); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestProfileNames_Sorted(t *testing.T) {
	names := Builtin().ProfileNames()
	if len(names) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("profile names not sorted: %v", names)
		}
	}
}
