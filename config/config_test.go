package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.SourceURL = "https://www.101evler.com/satilik-villa/karsiyaka-girne/villa-500046.html"
	cfg.OutputDir = "photos"
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty source url",
			mutate: func(cfg *Config) {
				cfg.SourceURL = ""
			},
			wantErr: "source URL",
		},
		{
			name: "missing host",
			mutate: func(cfg *Config) {
				cfg.SourceURL = "http://"
			},
			wantErr: "host",
		},
		{
			name: "unsupported scheme",
			mutate: func(cfg *Config) {
				cfg.SourceURL = "ftp://example.test/listing-1.html"
			},
			wantErr: "http or https",
		},
		{
			name: "empty output dir",
			mutate: func(cfg *Config) {
				cfg.OutputDir = ""
			},
			wantErr: "output directory",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "empty fallback prefix",
			mutate: func(cfg *Config) {
				cfg.FallbackPrefix = ""
			},
			wantErr: "fallback prefix",
		},
		{
			name: "extension without dot",
			mutate: func(cfg *Config) {
				cfg.DefaultExtension = "jpg"
			},
			wantErr: "default extension",
		},
		{
			name: "zero dedupe size",
			mutate: func(cfg *Config) {
				cfg.DedupeMaxSize = 0
			},
			wantErr: "dedupe",
		},
		{
			name: "unknown manifest format",
			mutate: func(cfg *Config) {
				cfg.ManifestFormat = "xml"
			},
			wantErr: "manifest format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("LISTING_TEST_STRING", "  value  ")
	t.Setenv("LISTING_TEST_INT", "42")
	t.Setenv("LISTING_TEST_BAD_INT", "forty")
	t.Setenv("LISTING_TEST_DURATION", "45s")
	t.Setenv("LISTING_TEST_BOOL", "true")
	t.Setenv("LISTING_TEST_EMPTY", "   ")

	if got, ok := EnvString("LISTING_TEST_STRING"); !ok || got != "value" {
		t.Fatalf("EnvString = %q/%v, want value/true", got, ok)
	}
	if _, ok := EnvString("LISTING_TEST_EMPTY"); ok {
		t.Fatalf("blank value should be treated as unset")
	}
	if _, ok := EnvString("LISTING_TEST_MISSING"); ok {
		t.Fatalf("missing key should be unset")
	}
	if got, ok, err := EnvInt("LISTING_TEST_INT"); err != nil || !ok || got != 42 {
		t.Fatalf("EnvInt = %d/%v/%v, want 42/true/nil", got, ok, err)
	}
	if _, _, err := EnvInt("LISTING_TEST_BAD_INT"); err == nil {
		t.Fatalf("expected parse error for non-numeric value")
	}
	if got, ok, err := EnvDuration("LISTING_TEST_DURATION"); err != nil || !ok || got != 45*time.Second {
		t.Fatalf("EnvDuration = %v/%v/%v, want 45s/true/nil", got, ok, err)
	}
	if got, ok, err := EnvBool("LISTING_TEST_BOOL"); err != nil || !ok || !got {
		t.Fatalf("EnvBool = %v/%v/%v, want true/true/nil", got, ok, err)
	}
}
