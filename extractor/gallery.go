package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	lru "github.com/hashicorp/golang-lru/v2"
)

// GalleryStrategy reads <img src> values from the gallery tab container.
type GalleryStrategy struct {
	selector  string
	marker    string
	dedupeMax int
}

// NewGalleryStrategy keeps images under selector whose src contains marker.
func NewGalleryStrategy(selector, marker string, dedupeMax int) (*GalleryStrategy, error) {
	if selector == "" {
		return nil, fmt.Errorf("gallery selector cannot be empty")
	}
	if marker == "" {
		return nil, fmt.Errorf("gallery marker cannot be empty")
	}
	if dedupeMax <= 0 {
		return nil, fmt.Errorf("dedupe max size must be positive")
	}
	return &GalleryStrategy{selector: selector, marker: marker, dedupeMax: dedupeMax}, nil
}

func (g *GalleryStrategy) Name() string { return "gallery" }

// Extract walks the first matching container in document order. When listingID is empty the ID filter
// is skipped.
func (g *GalleryStrategy) Extract(doc *goquery.Document, _ []byte, listingID string) []string {
	if doc == nil {
		return nil
	}
	container := doc.Find(g.selector).First()
	if container.Length() == 0 {
		return nil
	}

	imgs := container.Find("img")
	// Sized to hold every candidate so nothing is evicted mid-walk.
	seen, err := lru.New[string, struct{}](max(g.dedupeMax, imgs.Length()))
	if err != nil {
		return nil
	}

	var urls []string
	imgs.Each(func(_ int, img *goquery.Selection) {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" || !strings.Contains(src, g.marker) {
			return
		}
		if listingID != "" && !strings.Contains(src, listingID) {
			return
		}
		if found, _ := seen.ContainsOrAdd(src, struct{}{}); found {
			return
		}
		urls = append(urls, src)
	})
	return urls
}
