// Package models defines data structures for the listing downloader.
package models

import "time"

// Listing identifies the advertisement being downloaded.
type Listing struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// HasID reports whether a listing ID could be derived from the URL.
func (l *Listing) HasID() bool {
	return l != nil && l.ID != ""
}

// Metadata holds the descriptive fields scraped from a listing page.
type Metadata struct {
	Title       string            `json:"title"`
	Subtitle    string            `json:"subtitle,omitempty"`
	Price       string            `json:"price,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	Description string            `json:"description,omitempty"`
	Location    string            `json:"location,omitempty"`
	District    string            `json:"district,omitempty"`
	City        string            `json:"city,omitempty"`
	SaleType    string            `json:"sale_type"`
	Details     map[string]string `json:"details,omitempty"`
}

// Page is the raw result of a single page fetch.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Photo is the outcome of one image download attempt.
type Photo struct {
	Index      int           `csv:"index" json:"index"`
	URL        string        `csv:"url" json:"url"`
	Filename   string        `csv:"filename" json:"filename"`
	Path       string        `csv:"path" json:"path"`
	StatusCode int           `csv:"status" json:"status"`
	Size       int           `csv:"size" json:"size"`
	ErrorType  string        `csv:"error_type" json:"error_type,omitempty"`
	Error      string        `csv:"error" json:"error,omitempty"`
	Duration   time.Duration `csv:"-" json:"-"`
	Err        error         `csv:"-" json:"-"`
}

// OK reports whether the photo was fetched and written.
func (p *Photo) OK() bool {
	return p != nil && p.Err == nil
}

// Report summarises a complete run.
type Report struct {
	Listing    *Listing
	Strategy   string
	Found      []string
	Photos     []*Photo
	Downloaded int
	OutputDir  string
	StartTime  time.Time
	EndTime    time.Time
}

// Failed returns the attempts that did not produce a file.
func (r *Report) Failed() []*Photo {
	var out []*Photo
	for _, p := range r.Photos {
		if !p.OK() {
			out = append(out, p)
		}
	}
	return out
}
