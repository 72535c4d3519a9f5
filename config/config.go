package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the settings for a single listing download run.
type Config struct {
	SourceURL        string
	OutputDir        string
	Timeout          time.Duration
	UserAgent        string
	GallerySelector  string
	MarkerSubstring  string
	FallbackPrefix   string
	DefaultExtension string
	DedupeMaxSize    int
	MaxBodySize      int
	ManifestFile     string
	ManifestFormat   string // csv, json, or dual
	MetadataFile     string
	MetricsFile      string
	Verbose          bool
}

// DefaultConfig returns defaults tuned for 101evler listing pages.
func DefaultConfig() *Config {
	return &Config{
		Timeout:          30 * time.Second,
		UserAgent:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		GallerySelector:  "#st.gallery-tab-content",
		MarkerSubstring:  "property_thumb",
		FallbackPrefix:   "https://storage.googleapis.com/101evler-cache/property_thumb/",
		DefaultExtension: ".jpg",
		DedupeMaxSize:    1024,
		MaxBodySize:      32 * 1024 * 1024,
		ManifestFormat:   "csv",
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.SourceURL == "" {
		return fmt.Errorf("source URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.SourceURL)
	if err != nil {
		return fmt.Errorf("invalid source URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("source URL must use http or https")
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("source URL must include a host")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.GallerySelector == "" {
		return fmt.Errorf("gallery selector cannot be empty")
	}
	if c.MarkerSubstring == "" {
		return fmt.Errorf("marker substring cannot be empty")
	}
	if c.FallbackPrefix == "" {
		return fmt.Errorf("fallback prefix cannot be empty")
	}
	if !strings.HasPrefix(c.DefaultExtension, ".") {
		return fmt.Errorf("default extension must start with a dot")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}
	if c.MaxBodySize < 0 {
		return fmt.Errorf("max body size cannot be negative")
	}
	if c.ManifestFormat != "csv" && c.ManifestFormat != "json" && c.ManifestFormat != "dual" {
		return fmt.Errorf("manifest format must be csv, json, or dual")
	}

	return nil
}
