package extractor

import (
	"regexp"
	"sort"

	"github.com/PuerkitoBio/goquery"
)

const urlTail = `[^"'<>\s\\]*`

// PatternStrategy scans the raw body for URLs under a fixed storage prefix that mention the listing ID.
type PatternStrategy struct {
	prefix string
}

// NewPatternStrategy matches URLs starting with prefix.
func NewPatternStrategy(prefix string) *PatternStrategy {
	return &PatternStrategy{prefix: prefix}
}

func (p *PatternStrategy) Name() string { return "pattern" }

// Extract returns the distinct matches in ascending order. It needs the listing ID to build its
// pattern, so an empty ID yields nothing.
func (p *PatternStrategy) Extract(_ *goquery.Document, raw []byte, listingID string) []string {
	if listingID == "" || len(raw) == 0 {
		return nil
	}
	re := regexp.MustCompile(regexp.QuoteMeta(p.prefix) + urlTail + regexp.QuoteMeta(listingID) + urlTail)

	set := make(map[string]struct{})
	for _, m := range re.FindAll(raw, -1) {
		set[string(m)] = struct{}{}
	}
	if len(set) == 0 {
		return nil
	}

	urls := make([]string, 0, len(set))
	for u := range set {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}
