package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"github.com/aluiziolira/go-listing-photos/config"
	"github.com/aluiziolira/go-listing-photos/models"
	"github.com/gocolly/colly/v2"
)

// Getter performs a single GET and returns whatever status the server answered with.
type Getter interface {
	Get(ctx context.Context, rawURL string) (*models.Page, error)
}

// browserHeaders mirror a desktop Chrome on Windows navigation request.
var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9,tr;q=0.8",
	"Sec-Ch-Ua":                 `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`,
	"Sec-Ch-Ua-Mobile":          "?0",
	"Sec-Ch-Ua-Platform":        `"Windows"`,
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Upgrade-Insecure-Requests": "1",
}

// Client issues browser-like GET requests through colly. The page and every image share one transport
// and cookie jar so clearance cookies set by the page carry over to the image requests.
type Client struct {
	cfg       *config.Config
	transport http.RoundTripper
	jar       *cookiejar.Jar
	metrics   *Metrics
}

// NewClient builds a client configured from cfg.
func NewClient(cfg *config.Config, metrics *Metrics) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		cfg: cfg,
		transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		jar:     jar,
		metrics: metrics,
	}, nil
}

// WithTransport swaps the underlying round tripper.
func (c *Client) WithTransport(rt http.RoundTripper) {
	c.transport = rt
}

func (c *Client) newCollector() *colly.Collector {
	collector := colly.NewCollector(
		colly.UserAgent(c.cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(c.cfg.MaxBodySize),
	)
	collector.SetRequestTimeout(c.cfg.Timeout)
	collector.WithTransport(c.transport)
	collector.SetCookieJar(c.jar)
	return collector
}

// Get fetches rawURL once. Non-200 responses are returned as pages, not errors; transport failures
// are classified. Callers count errors in metrics.
func (c *Client) Get(ctx context.Context, rawURL string) (*models.Page, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collector := c.newCollector()
	var page *models.Page
	var truncated error

	collector.OnRequest(func(r *colly.Request) {
		r.Ctx.Put("start", time.Now())
		for k, v := range browserHeaders {
			r.Headers.Set(k, v)
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
			c.metrics.ObserveDuration(time.Since(start))
		}
		if c.truncated(r) {
			truncated = ErrTruncated{Limit: c.cfg.MaxBodySize}
			return
		}
		page = &models.Page{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       r.Body,
		}
		slog.Debug("response received",
			slog.String("url", page.URL),
			slog.Int("status", page.StatusCode),
			slog.Int("bytes", len(page.Body)),
		)
	})

	if err := collector.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, classifyError(err, 0))
	}
	if truncated != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, truncated)
	}
	if page == nil {
		return nil, fmt.Errorf("get %s: no response received", rawURL)
	}
	return page, nil
}

// truncated reports whether colly cut the body at MaxBodySize. Without a Content-Length header a body
// of exactly the limit counts as truncated.
func (c *Client) truncated(r *colly.Response) bool {
	limit := c.cfg.MaxBodySize
	if limit <= 0 || len(r.Body) < limit {
		return false
	}
	if r.Headers == nil {
		return true
	}
	length, err := strconv.Atoi(r.Headers.Get("Content-Length"))
	return err != nil || length > limit
}
