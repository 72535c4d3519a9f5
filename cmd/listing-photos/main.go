package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aluiziolira/go-listing-photos/config"
	"github.com/aluiziolira/go-listing-photos/models"
	"github.com/aluiziolira/go-listing-photos/output"
	"github.com/aluiziolira/go-listing-photos/scraper"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// A bad LISTING_* value is reported after the usage check.
	defaults, envErr := envDefaults()
	if envErr != nil {
		defaults = config.DefaultConfig()
	}

	flags := flag.NewFlagSet("listing-photos", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "Usage: listing-photos [flags] <url> <output-dir>")
		flags.PrintDefaults()
	}

	timeout := flags.Duration("timeout", defaults.Timeout, "HTTP timeout per request")
	userAgent := flags.String("user-agent", defaults.UserAgent, "Browser user agent sent with every request")
	marker := flags.String("marker", defaults.MarkerSubstring, "Substring an image src must contain in the gallery")
	fallbackPrefix := flags.String("fallback-prefix", defaults.FallbackPrefix, "URL prefix scanned for when the gallery is empty")
	manifestFile := flags.String("manifest", defaults.ManifestFile, "Write a download manifest to this file")
	manifestFormat := flags.String("format", defaults.ManifestFormat, "Manifest format: csv, json, or dual")
	metadataFile := flags.String("metadata", defaults.MetadataFile, "Write listing metadata as JSON to this file")
	metricsFile := flags.String("metrics-file", defaults.MetricsFile, "Write Prometheus metrics in text format to this file")
	verbose := flags.Bool("v", defaults.Verbose, "Enable verbose logging")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	logger, level := newLogger(stderr, *verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	console := output.NewConsole(stdout)
	if flags.NArg() < 2 {
		console.Fatal(scraper.ErrUsage)
		return 1
	}
	if envErr != nil {
		fmt.Fprintln(stderr, envErr)
		return 1
	}

	cfg := defaults
	cfg.SourceURL = flags.Arg(0)
	cfg.OutputDir = flags.Arg(1)
	cfg.Timeout = *timeout
	cfg.UserAgent = *userAgent
	cfg.MarkerSubstring = *marker
	cfg.FallbackPrefix = *fallbackPrefix
	cfg.ManifestFile = *manifestFile
	cfg.ManifestFormat = strings.ToLower(*manifestFormat)
	cfg.MetadataFile = *metadataFile
	cfg.MetricsFile = *metricsFile
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := scraper.NewScraper(cfg, console)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		return 1
	}

	slog.Debug("starting run",
		slog.String("url", cfg.SourceURL),
		slog.String("output_dir", cfg.OutputDir),
	)
	report, runErr := s.Run(ctx)
	writeArtifacts(cfg, s.Metrics, report)

	if runErr != nil {
		slog.Debug("run failed", slog.Any("error", runErr))
		console.Fatal(runErr)
		return 1
	}

	slog.Debug("run finished",
		slog.Int("downloaded", report.Downloaded),
		slog.Int("found", len(report.Found)),
		slog.Int("failed", len(report.Failed())),
		slog.Duration("duration", report.EndTime.Sub(report.StartTime)),
	)
	return 0
}

// envDefaults applies LISTING_* environment overrides on top of DefaultConfig.
func envDefaults() (*config.Config, error) {
	cfg := config.DefaultConfig()

	if value, ok, err := config.EnvDuration("LISTING_TIMEOUT"); err != nil {
		return nil, fmt.Errorf("invalid LISTING_TIMEOUT: %w", err)
	} else if ok {
		cfg.Timeout = value
	}
	if value, ok, err := config.EnvInt("LISTING_MAX_BODY_SIZE"); err != nil {
		return nil, fmt.Errorf("invalid LISTING_MAX_BODY_SIZE: %w", err)
	} else if ok {
		cfg.MaxBodySize = value
	}
	if value, ok, err := config.EnvBool("LISTING_VERBOSE"); err != nil {
		return nil, fmt.Errorf("invalid LISTING_VERBOSE: %w", err)
	} else if ok {
		cfg.Verbose = value
	}

	strs := map[string]*string{
		"LISTING_USER_AGENT":      &cfg.UserAgent,
		"LISTING_GALLERY":         &cfg.GallerySelector,
		"LISTING_MARKER":          &cfg.MarkerSubstring,
		"LISTING_FALLBACK_PREFIX": &cfg.FallbackPrefix,
		"LISTING_MANIFEST":        &cfg.ManifestFile,
		"LISTING_MANIFEST_FORMAT": &cfg.ManifestFormat,
		"LISTING_METADATA":        &cfg.MetadataFile,
		"LISTING_METRICS_FILE":    &cfg.MetricsFile,
	}
	for key, dst := range strs {
		if value, ok := config.EnvString(key); ok {
			*dst = value
		}
	}
	return cfg, nil
}

// writeArtifacts stores the optional side outputs. Failures are logged and never change the exit code.
func writeArtifacts(cfg *config.Config, metrics *scraper.Metrics, report *models.Report) {
	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		slog.Error("metrics textfile", slog.Any("error", err))
	}
	if report == nil {
		return
	}

	if cfg.MetadataFile != "" && report.Listing != nil && report.Listing.Metadata != nil {
		if err := output.WriteMetadata(cfg.MetadataFile, report.Listing); err != nil {
			slog.Error("write metadata", slog.Any("error", err))
		}
	}

	if cfg.ManifestFile == "" || len(report.Photos) == 0 {
		return
	}
	writer, err := output.NewManifestWriter(cfg.ManifestFormat, cfg.ManifestFile)
	if err != nil {
		slog.Error("creating manifest writer", slog.Any("error", err))
		return
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close manifest", slog.Any("error", err))
		}
	}()
	if err := writer.Write(report.Photos); err != nil {
		slog.Error("write manifest", slog.Any("error", err))
		return
	}
	if err := writer.Validate(); err != nil {
		slog.Error("manifest validation failed", slog.Any("error", err))
	}
}

func newLogger(w io.Writer, verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(w) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler), level
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
