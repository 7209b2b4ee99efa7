package config

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Processing.PreviewLength != 200 {
		t.Fatalf("expected preview length 200, got %d", cfg.Processing.PreviewLength)
	}
	if cfg.Processing.ProgressEvery != 100 {
		t.Fatalf("expected progress interval 100, got %d", cfg.Processing.ProgressEvery)
	}
	if !cfg.Sanitize.StripExternalImages || !cfg.Sanitize.StripTrackingPixels {
		t.Fatalf("expected all sanitizer rules on by default: %+v", cfg.Sanitize)
	}
	if cfg.Sanitize.Base64Threshold != 1000 || cfg.Sanitize.MaxStyleLength != 500 {
		t.Fatalf("unexpected sanitizer thresholds: %+v", cfg.Sanitize)
	}
	if cfg.Encoding.Default != "utf-8" || cfg.Encoding.Fallback != "latin-1" {
		t.Fatalf("unexpected encodings: %+v", cfg.Encoding)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadConfigWithEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := DefaultConfig()
	cfg.Processing.PreviewLength = 300
	cfg.Output.EmailsDirname = "messages"

	if _, err := Save(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	t.Setenv("MBOX2HTML_PROCESSING_PREVIEW_LENGTH", "50")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if loaded.Processing.PreviewLength != 50 {
		t.Fatalf("expected env override, got %d", loaded.Processing.PreviewLength)
	}
	if loaded.Output.EmailsDirname != "messages" {
		t.Fatalf("expected emails dirname from file, got %q", loaded.Output.EmailsDirname)
	}
	if loaded.Sanitize.Base64Threshold != 1000 {
		t.Fatalf("expected default threshold, got %d", loaded.Sanitize.Base64Threshold)
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load without file: %v", err)
	}
	if loaded != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", loaded)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero preview", func(c *Config) { c.Processing.PreviewLength = 0 }},
		{"zero progress", func(c *Config) { c.Processing.ProgressEvery = 0 }},
		{"zero threshold", func(c *Config) { c.Sanitize.Base64Threshold = 0 }},
		{"empty encoding", func(c *Config) { c.Encoding.Default = "" }},
		{"empty dirname", func(c *Config) { c.Output.EmailsDirname = "" }},
		{"dirname with separator", func(c *Config) { c.Output.AttachmentsDirname = "a/b" }},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := Validate(cfg); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}
