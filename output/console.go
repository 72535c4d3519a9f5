// Package output renders run progress and writes the optional manifest and metadata files.
package output

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aluiziolira/go-listing-photos/models"
	"github.com/aluiziolira/go-listing-photos/scraper"
)

// Console prints human-readable progress, in run order, to w.
type Console struct {
	w io.Writer
}

// NewConsole returns a console reporter writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) ListingID(id string) {
	if id == "" {
		id = "None"
	}
	fmt.Fprintf(c.w, "Listing ID: %s\n", id)
}

func (c *Console) Fetching(url string) {
	fmt.Fprintf(c.w, "Fetching %s\n", url)
}

func (c *Console) PageStatus(status int) {
	fmt.Fprintf(c.w, "Status: %d\n", status)
}

func (c *Console) PageTitle(title string) {
	if title == "" {
		title = "N/A"
	}
	fmt.Fprintf(c.w, "Page title: %s\n", title)
}

func (c *Console) ImagesFound(urls []string) {
	fmt.Fprintf(c.w, "\nFound %d images (no watermark):\n", len(urls))
	for i, u := range urls {
		fmt.Fprintf(c.w, "  %d. %s\n", i+1, u)
	}
}

func (c *Console) Downloading(dir string) {
	fmt.Fprintf(c.w, "\nDownloading to: %s\n", dir)
}

// Photo prints one download outcome with its size in KB.
func (c *Console) Photo(p *models.Photo) {
	if p.OK() {
		fmt.Fprintf(c.w, "  Downloaded: %s (%.1f KB)\n", p.Filename, float64(p.Size)/1024)
		return
	}
	if p.StatusCode != 0 && p.StatusCode != http.StatusOK {
		fmt.Fprintf(c.w, "  Failed: %s - HTTP %d\n", p.Filename, p.StatusCode)
		return
	}
	fmt.Fprintf(c.w, "  Failed: %s - %v\n", p.Filename, p.Err)
}

func (c *Console) Done(r *models.Report) {
	fmt.Fprintf(c.w, "\nDone! %d/%d images downloaded to %s\n", r.Downloaded, len(r.Found), r.OutputDir)
}

// Fatal prints the message for a run-ending error.
func (c *Console) Fatal(err error) {
	var fetchErr *scraper.FetchError
	switch {
	case errors.Is(err, scraper.ErrUsage):
		fmt.Fprintln(c.w, "Usage: listing-photos [flags] <url> <output-dir>")
	case errors.As(err, &fetchErr):
		fmt.Fprintf(c.w, "Failed to fetch page. Status: %d\n", fetchErr.StatusCode)
	case errors.Is(err, scraper.ErrNoImages):
		fmt.Fprintln(c.w, "\nNo images found for this listing.")
	default:
		fmt.Fprintf(c.w, "Error: %v\n", err)
	}
}
