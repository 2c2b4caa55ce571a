// Package webtext fetches a web page and reduces it to plain text suitable
// for inclusion in a model prompt.
package webtext

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultTimeout  = 8 * time.Second
	defaultMaxBytes = 2 * 1024 * 1024
)

// Fetcher retrieves pages with a bounded timeout and body size.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
		maxBytes: defaultMaxBytes,
	}
}

// FetchText GETs a page and returns its visible text, collapsed to single
// spaces and truncated to maxChars (0 disables truncation).
func (f *Fetcher) FetchText(ctx context.Context, rawURL string, maxChars int) (string, error) {
	u, err := normalizeURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "clientintel/1.0 (company research)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: status %d", u, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", err
	}

	text, err := ExtractText(string(body))
	if err != nil {
		return "", err
	}
	return Truncate(text, maxChars), nil
}

// ExtractText strips markup from an HTML document and collapses all
// whitespace runs to single spaces.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, nav, footer, header, aside, iframe, svg").Remove()

	var b strings.Builder
	if title := strings.TrimSpace(doc.Find("title").Text()); title != "" {
		b.WriteString(title)
		b.WriteString(" ")
	}
	b.WriteString(doc.Find("body").Text())

	return strings.Join(strings.Fields(b.String()), " "), nil
}

// Truncate cuts s to at most maxChars bytes, preferring a word boundary
// near the end and discarding any split trailing rune.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	cut := s[:maxChars]
	if i := strings.LastIndexByte(cut, ' '); i >= 0 && i > maxChars-80 {
		cut = cut[:i]
	}
	return strings.TrimSpace(strings.ToValidUTF8(cut, ""))
}

func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", raw)
	}
	return u.String(), nil
}
