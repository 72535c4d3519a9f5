package scraper

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for one run.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	ImagesFound     *prometheus.CounterVec
	DownloadsTotal  *prometheus.CounterVec
	DownloadBytes   prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_requests_total",
			Help: "Total HTTP requests issued, by kind (page or image).",
		},
		[]string{"kind"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "listing_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	imagesFound := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_images_found_total",
			Help: "Image URLs extracted from the listing page, by strategy.",
		},
		[]string{"strategy"},
	)
	downloads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_downloads_total",
			Help: "Image download attempts by outcome.",
		},
		[]string{"outcome"},
	)
	downloadBytes := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "listing_download_bytes_total",
			Help: "Bytes written to the output directory.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_errors_total",
			Help: "Total number of errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, imagesFound, downloads, downloadBytes, errorsTotal)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		ImagesFound:     imagesFound,
		DownloadsTotal:  downloads,
		DownloadBytes:   downloadBytes,
		ErrorsTotal:     errorsTotal,
	}
}

// IncRequest increments the requests total counter.
func (m *Metrics) IncRequest(kind string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(kind).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// AddImagesFound records how many URLs a strategy produced.
func (m *Metrics) AddImagesFound(strategy string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ImagesFound.WithLabelValues(strategy).Add(float64(n))
}

// IncDownload records one download attempt and, on success, its size.
func (m *Metrics) IncDownload(ok bool, size int) {
	if m == nil {
		return
	}
	if !ok {
		m.DownloadsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.DownloadsTotal.WithLabelValues("success").Inc()
	m.DownloadBytes.Add(float64(size))
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// WriteTextfile dumps the registry in the text exposition format, for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
