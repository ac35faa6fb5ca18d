package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Email != "" || cfg.MinScore != 0 || len(cfg.HighlightAuthors) != 0 {
		t.Errorf("Load() = %+v, want zero config", cfg)
	}
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `email: lab@example.org
highlight_authors:
  - Kowalski
  - Nowak
min_score: 45.5
tie_margin: 3
search_rows: 10
publisher_patterns:
  - name: custom
    pattern: 'example\.org/doi/(10\.\d+/\S+)'
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Email != "lab@example.org" {
		t.Errorf("Email = %q", cfg.Email)
	}
	if len(cfg.HighlightAuthors) != 2 || cfg.HighlightAuthors[0] != "Kowalski" {
		t.Errorf("HighlightAuthors = %v", cfg.HighlightAuthors)
	}
	if cfg.MinScore != 45.5 || cfg.TieMargin != 3 || cfg.SearchRows != 10 {
		t.Errorf("thresholds = %+v", cfg)
	}
	if len(cfg.PublisherPatterns) != 1 || cfg.PublisherPatterns[0].Name != "custom" {
		t.Errorf("PublisherPatterns = %+v", cfg.PublisherPatterns)
	}
}

func TestLoad_EnvOverridesEmail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("email: file@example.org\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PUBLIST_EMAIL", "env@example.org")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Email != "env@example.org" {
		t.Errorf("Email = %q, want env override", cfg.Email)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(":\n  - not valid yaml {"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yml")

	want := &Config{
		Email:            "lab@example.org",
		HighlightAuthors: []string{"Kowalski"},
		MaxRetries:       5,
	}
	if err := want.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Email != want.Email || got.MaxRetries != want.MaxRetries {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestEffectiveCachePath(t *testing.T) {
	cfg := &Config{CachePath: "/tmp/custom.db"}
	if got := cfg.EffectiveCachePath(); got != "/tmp/custom.db" {
		t.Errorf("EffectiveCachePath() = %q", got)
	}

	empty := &Config{}
	if got := empty.EffectiveCachePath(); got == "" {
		t.Error("EffectiveCachePath() should fall back to a default")
	}
}
