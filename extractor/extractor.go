// Package extractor finds listing image URLs and metadata in a fetched page.
package extractor

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-listing-photos/config"
)

// Strategy produces candidate image URLs from a parsed page.
type Strategy interface {
	Name() string
	Extract(doc *goquery.Document, raw []byte, listingID string) []string
}

// Chain runs strategies in order; the first non-empty result wins.
type Chain struct {
	strategies []Strategy
}

// NewChain builds a chain from an ordered list of strategies.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// DefaultChain returns the gallery strategy followed by the raw-text pattern fallback.
func DefaultChain(cfg *config.Config) (*Chain, error) {
	gallery, err := NewGalleryStrategy(cfg.GallerySelector, cfg.MarkerSubstring, cfg.DedupeMaxSize)
	if err != nil {
		return nil, err
	}
	return NewChain(gallery, NewPatternStrategy(cfg.FallbackPrefix)), nil
}

// Extract returns the URLs and the name of the strategy that produced them.
func (c *Chain) Extract(doc *goquery.Document, raw []byte, listingID string) ([]string, string) {
	for _, s := range c.strategies {
		urls := s.Extract(doc, raw, listingID)
		if len(urls) > 0 {
			return urls, s.Name()
		}
		slog.Debug("strategy found no images",
			slog.String("strategy", s.Name()),
			slog.String("listing_id", listingID),
		)
	}
	return nil, ""
}

// ParseDocument builds a goquery document from a raw page body.
func ParseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// PageTitle returns the trimmed <title> text, or "" when the page has none.
func PageTitle(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	return trimmed(doc.Find("title").First().Text())
}
