package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-listing-photos/models"
	"github.com/aluiziolira/go-listing-photos/parser"
)

var descriptionSelectors = []string{
	".div-block-361 .f-s-16",
	".f-s-16",
	".w-richtext",
	"[class*='ilan-aciklama']",
	".col-10",
}

// ExtractMetadata reads the listing's descriptive fields from the page.
func ExtractMetadata(doc *goquery.Document, listingURL string) *models.Metadata {
	meta := &models.Metadata{
		SaleType: parser.SaleType(listingURL),
		Details:  make(map[string]string),
	}
	if doc == nil {
		return meta
	}

	meta.Title = firstText(doc, "h1")
	if meta.Title == "" {
		meta.Title = PageTitle(doc)
	}
	meta.Subtitle = firstText(doc, "h2.text-block-139")
	if meta.Subtitle == "" {
		meta.Subtitle = firstText(doc, "h2")
	}

	if price := doc.Find("h3.ilanDetayFontPrice").First(); price.Length() > 0 {
		label := trimmed(price.Text())
		meta.Price = parser.NormalizePrice(label)
		meta.Currency = parser.DetectCurrency(label)
	}

	for _, sel := range descriptionSelectors {
		text := firstText(doc, sel)
		if len(text) > 20 {
			meta.Description = text
			break
		}
	}

	doc.Find(".text-block-141, .ilandetaycomponent").Each(func(_ int, s *goquery.Selection) {
		if label, value, ok := labelValue(s); ok {
			meta.Details[label] = value
		}
	})
	doc.Find(".div-block-358").Each(func(_ int, s *goquery.Selection) {
		label, value, ok := labelValue(s)
		if !ok {
			return
		}
		if _, exists := meta.Details[label]; !exists {
			meta.Details[label] = value
		}
	})

	meta.Location = firstText(doc, ".locationpremiumdivcopy")
	if meta.Location == "" {
		meta.Location = firstText(doc, "[class*='location']")
	}
	meta.City = parser.DetectCity(meta.Location + " " + meta.Subtitle)

	meta.District = parser.DistrictFromLocation(meta.Location)
	if meta.District == "" {
		meta.District = parser.DistrictFromURL(listingURL)
	}

	return meta
}

// labelValue splits an element's text into its first two non-empty lines.
func labelValue(s *goquery.Selection) (string, string, bool) {
	var parts []string
	for _, line := range strings.Split(s.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func firstText(doc *goquery.Document, selector string) string {
	return trimmed(doc.Find(selector).First().Text())
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
