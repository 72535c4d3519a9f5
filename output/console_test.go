package output

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aluiziolira/go-listing-photos/models"
	"github.com/aluiziolira/go-listing-photos/scraper"
)

func TestConsoleRunOrder(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	urls := []string{"https://storage.test/a.jpg", "https://storage.test/b.jpg"}
	c.ListingID("500046")
	c.Fetching("https://site/listing-500046.html")
	c.PageStatus(200)
	c.PageTitle("")
	c.ImagesFound(urls)
	c.Downloading("out")
	photos := samplePhotos()
	for _, p := range photos {
		c.Photo(p)
	}
	c.Done(&models.Report{Found: urls, Photos: photos, Downloaded: 1, OutputDir: "out"})

	out := buf.String()
	ordered := []string{
		"Listing ID: 500046",
		"Fetching https://site/listing-500046.html",
		"Status: 200",
		"Page title: N/A",
		"Found 2 images",
		"  1. https://storage.test/a.jpg",
		"  2. https://storage.test/b.jpg",
		"Downloading to: out",
		"Downloaded: photo_01.jpg (2.0 KB)",
		"Failed: photo_02.png - HTTP 404",
		"Done! 1/2 images downloaded to out",
	}
	pos := 0
	for _, want := range ordered {
		idx := strings.Index(out[pos:], want)
		if idx < 0 {
			t.Fatalf("output missing %q after offset %d:\n%s", want, pos, out)
		}
		pos += idx + len(want)
	}
}

func TestConsoleMissingListingID(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).ListingID("")
	if got := buf.String(); got != "Listing ID: None\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestConsolePhotoTransportFailure(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).Photo(&models.Photo{Filename: "photo_03.jpg", Err: errors.New("connection: refused")})
	if got := buf.String(); got != "  Failed: photo_03.jpg - connection: refused\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestConsoleFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "usage", err: scraper.ErrUsage, want: "Usage:"},
		{name: "fetch", err: fmt.Errorf("run: %w", &scraper.FetchError{URL: "u", StatusCode: 404}), want: "Status: 404"},
		{name: "no images", err: scraper.ErrNoImages, want: "No images found"},
		{name: "other", err: errors.New("boom"), want: "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewConsole(&buf).Fatal(tt.err)
			if !strings.Contains(buf.String(), tt.want) {
				t.Fatalf("output = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}
