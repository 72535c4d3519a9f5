package parser

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var listingIDPattern = regexp.MustCompile(`-(\d+)\.html`)

// ListingID returns the digit run in front of the "-<digits>.html" suffix, or "" if absent.
func ListingID(rawURL string) string {
	m := listingIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// PhotoExtension derives the file extension from the URL path, ignoring the query string.
func PhotoExtension(imageURL, fallback string) string {
	p := imageURL
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if u, err := url.Parse(p); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := path.Ext(p)
	if ext == "" || ext == "." {
		return fallback
	}
	return ext
}

// PhotoFilename builds "photo_NN<ext>" for a 1-based index.
func PhotoFilename(index int, imageURL, fallbackExt string) string {
	return fmt.Sprintf("photo_%02d%s", index, PhotoExtension(imageURL, fallbackExt))
}

// NormalizePrice keeps only the digits of a price label ("£200,000" -> "200000").
func NormalizePrice(price string) string {
	var b strings.Builder
	for _, r := range price {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DetectCurrency maps the symbol in a price label to a currency code; GBP when none is recognised.
func DetectCurrency(price string) string {
	switch {
	case strings.Contains(price, "£"):
		return "GBP"
	case strings.Contains(price, "$"):
		return "USD"
	case strings.Contains(price, "€"):
		return "EUR"
	case strings.Contains(price, "₺"):
		return "TL"
	default:
		return "GBP"
	}
}

// SaleType returns "satilik" for sale listings and "kiralik" otherwise.
func SaleType(listingURL string) string {
	if strings.Contains(strings.ToLower(listingURL), "satilik") {
		return "satilik"
	}
	return "kiralik"
}

var turkishFolds = strings.NewReplacer(
	"ı", "i",
	"ğ", "g",
	"ü", "u",
	"ş", "s",
	"ö", "o",
	"ç", "c",
)

// NormalizeTurkish lowercases s and folds Turkish letters to ASCII.
func NormalizeTurkish(s string) string {
	s = strings.ReplaceAll(s, "İ", "I")
	return turkishFolds.Replace(strings.ToLower(s))
}

var cities = []string{"lefkosa", "gazimagusa", "guzelyurt", "lefke", "girne", "iskele"}

// DetectCity finds the first known city name in text.
func DetectCity(text string) string {
	normalized := NormalizeTurkish(text)
	for _, city := range cities {
		if strings.Contains(normalized, city) {
			return city
		}
	}
	return ""
}

// DistrictFromLocation returns the part before "/" in a "District / City" location label.
func DistrictFromLocation(location string) string {
	before, _, found := strings.Cut(location, "/")
	if !found {
		return ""
	}
	return strings.TrimSpace(before)
}

// DistrictFromURL reads the district from the second path slug, e.g. /satilik-villa/karsiyaka-girne/.
func DistrictFromURL(listingURL string) string {
	u, err := url.Parse(listingURL)
	if err != nil {
		return ""
	}
	var slugs []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			slugs = append(slugs, s)
		}
	}
	if len(slugs) < 3 {
		return ""
	}
	slug := slugs[1]
	for _, city := range cities {
		if strings.HasSuffix(NormalizeTurkish(slug), "-"+city) {
			slug = slug[:len(slug)-len(city)-1]
			break
		}
	}
	if slug == "" {
		return ""
	}
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
