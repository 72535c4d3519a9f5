package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aluiziolira/go-listing-photos/models"
	"github.com/aluiziolira/go-listing-photos/parser"
)

// Downloader fetches image URLs one by one into a directory.
type Downloader struct {
	client     Getter
	metrics    *Metrics
	defaultExt string
	onPhoto    func(*models.Photo)
}

// NewDownloader returns a downloader using client for every request.
func NewDownloader(client Getter, metrics *Metrics, defaultExt string) *Downloader {
	return &Downloader{client: client, metrics: metrics, defaultExt: defaultExt}
}

// OnPhoto registers a callback invoked after each attempt.
func (d *Downloader) OnPhoto(fn func(*models.Photo)) {
	d.onPhoto = fn
}

// Download attempts every URL in order and returns one result per URL. A failed image never stops
// the batch; only a failure to create dir is returned as an error.
func (d *Downloader) Download(ctx context.Context, urls []string, dir string) ([]*models.Photo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %q: %w", dir, err)
	}

	photos := make([]*models.Photo, 0, len(urls))
	for i, u := range urls {
		photo := d.fetchOne(ctx, i+1, u, dir)
		photos = append(photos, photo)
		if d.onPhoto != nil {
			d.onPhoto(photo)
		}
	}
	return photos, nil
}

func (d *Downloader) fetchOne(ctx context.Context, index int, imageURL, dir string) *models.Photo {
	filename := parser.PhotoFilename(index, imageURL, d.defaultExt)
	photo := &models.Photo{
		Index:    index,
		URL:      imageURL,
		Filename: filename,
		Path:     filepath.Join(dir, filename),
	}

	start := time.Now()
	d.metrics.IncRequest("image")
	err := d.store(ctx, photo)
	photo.Duration = time.Since(start)

	if err != nil {
		photo.Err = err
		photo.ErrorType = errorTypeLabel(err)
		photo.Error = err.Error()
		d.metrics.IncError(photo.ErrorType)
		slog.Warn("image download failed",
			slog.String("file", filename),
			slog.String("url", imageURL),
			slog.String("category", photo.ErrorType),
			slog.Any("error", err),
		)
	} else {
		slog.Debug("image downloaded",
			slog.String("file", filename),
			slog.Int("bytes", photo.Size),
			slog.Duration("duration", photo.Duration),
		)
	}
	d.metrics.IncDownload(photo.OK(), photo.Size)
	return photo
}

func (d *Downloader) store(ctx context.Context, photo *models.Photo) error {
	page, err := d.client.Get(ctx, photo.URL)
	if err != nil {
		return err
	}
	photo.StatusCode = page.StatusCode
	if page.StatusCode != http.StatusOK {
		return classifyError(nil, page.StatusCode)
	}
	if err := os.WriteFile(photo.Path, page.Body, 0o644); err != nil {
		return ErrWrite{Err: err}
	}
	photo.Size = len(page.Body)
	return nil
}
