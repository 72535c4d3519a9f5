package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aluiziolira/go-listing-photos/config"
	"github.com/aluiziolira/go-listing-photos/extractor"
	"github.com/aluiziolira/go-listing-photos/models"
	"github.com/aluiziolira/go-listing-photos/parser"
)

// Reporter receives progress as the run advances.
type Reporter interface {
	ListingID(id string)
	Fetching(url string)
	PageStatus(status int)
	PageTitle(title string)
	ImagesFound(urls []string)
	Downloading(dir string)
	Photo(p *models.Photo)
	Done(r *models.Report)
}

// Scraper runs fetch, extraction and download for one listing.
type Scraper struct {
	cfg        *config.Config
	client     Getter
	chain      *extractor.Chain
	downloader *Downloader
	reporter   Reporter
	Metrics    *Metrics
}

// NewScraper builds a scraper with a colly-backed client.
func NewScraper(cfg *config.Config, reporter Reporter) (*Scraper, error) {
	metrics := NewMetrics()
	client, err := NewClient(cfg, metrics)
	if err != nil {
		return nil, err
	}
	return newScraper(cfg, client, metrics, reporter)
}

// NewScraperWithClient builds a scraper around an existing client.
func NewScraperWithClient(cfg *config.Config, client Getter, metrics *Metrics, reporter Reporter) (*Scraper, error) {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return newScraper(cfg, client, metrics, reporter)
}

func newScraper(cfg *config.Config, client Getter, metrics *Metrics, reporter Reporter) (*Scraper, error) {
	chain, err := extractor.DefaultChain(cfg)
	if err != nil {
		return nil, fmt.Errorf("build extractor chain: %w", err)
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	downloader := NewDownloader(client, metrics, cfg.DefaultExtension)
	downloader.OnPhoto(reporter.Photo)

	return &Scraper{
		cfg:        cfg,
		client:     client,
		chain:      chain,
		downloader: downloader,
		reporter:   reporter,
		Metrics:    metrics,
	}, nil
}

// Run executes the whole pipeline. The returned report is non-nil even on error and holds whatever
// was learned before the failure.
func (s *Scraper) Run(ctx context.Context) (*models.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	listing := &models.Listing{
		ID:  parser.ListingID(s.cfg.SourceURL),
		URL: s.cfg.SourceURL,
	}
	report := &models.Report{
		Listing:   listing,
		OutputDir: s.cfg.OutputDir,
		StartTime: time.Now(),
	}
	defer func() { report.EndTime = time.Now() }()

	s.reporter.ListingID(listing.ID)
	s.reporter.Fetching(listing.URL)

	s.Metrics.IncRequest("page")
	page, err := s.client.Get(ctx, listing.URL)
	if err != nil {
		s.Metrics.IncError(errorTypeLabel(err))
		return report, fmt.Errorf("fetch listing page: %w", err)
	}
	s.reporter.PageStatus(page.StatusCode)
	if page.StatusCode != http.StatusOK {
		classified := classifyError(nil, page.StatusCode)
		s.Metrics.IncError(errorTypeLabel(classified))
		return report, &FetchError{URL: listing.URL, StatusCode: page.StatusCode, Err: classified}
	}

	doc, err := extractor.ParseDocument(page.Body)
	if err != nil {
		return report, err
	}
	listing.Title = extractor.PageTitle(doc)
	listing.Metadata = extractor.ExtractMetadata(doc, listing.URL)
	s.reporter.PageTitle(listing.Title)

	urls, strategy := s.chain.Extract(doc, page.Body, listing.ID)
	report.Found = urls
	report.Strategy = strategy
	s.Metrics.AddImagesFound(strategy, len(urls))
	s.reporter.ImagesFound(urls)
	if len(urls) == 0 {
		return report, ErrNoImages
	}
	slog.Debug("images extracted",
		slog.String("listing_id", listing.ID),
		slog.String("strategy", strategy),
		slog.Int("count", len(urls)),
	)

	s.reporter.Downloading(s.cfg.OutputDir)
	photos, err := s.downloader.Download(ctx, urls, s.cfg.OutputDir)
	if err != nil {
		return report, err
	}
	report.Photos = photos
	for _, p := range photos {
		if p.OK() {
			report.Downloaded++
		}
	}

	report.EndTime = time.Now()
	s.reporter.Done(report)
	return report, nil
}

type nopReporter struct{}

func (nopReporter) ListingID(string) {}
func (nopReporter) Fetching(string) {}
func (nopReporter) PageStatus(int) {}
func (nopReporter) PageTitle(string) {}
func (nopReporter) ImagesFound([]string) {}
func (nopReporter) Downloading(string) {}
func (nopReporter) Photo(*models.Photo) {}
func (nopReporter) Done(*models.Report) {}
