package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxPageBytes caps how much of a listing page is parsed.
const maxPageBytes = 4 << 20

var _ Scraper = (*PageScraper)(nil)

// PageScraper implements [Scraper] by fetching the listing page and reading its generic metadata.
type PageScraper struct {
	client    *http.Client
	userAgent string
}

// NewPageScraper creates a PageScraper. A nil client gets one with the configured timeout.
func NewPageScraper(cfg shared.ScraperConfig, client *http.Client) *PageScraper {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	return &PageScraper{client: client, userAgent: cfg.UserAgent}
}

// Scrape fetches link and extracts title, company and country.
func (s *PageScraper) Scrape(ctx context.Context, link string) (*models.Candidate, error) {
	link = strings.TrimSpace(link)
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: not an http(s) URL: %q", shared.ErrInvalidArgument, link)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrFetchFailed, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || (mt != "text/html" && mt != "application/xhtml+xml") {
			return nil, fmt.Errorf("%w: content type %q", shared.ErrUnsupportedPage, ct)
		}
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse page: %v", shared.ErrFetchFailed, err)
	}

	final := u
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL
	}

	meta := extractMeta(doc)
	return &models.Candidate{
		JobTitle:    firstNonEmpty(meta.h1, meta.ogTitle, meta.title),
		CompanyName: firstNonEmpty(meta.siteName, meta.appName),
		CountryName: CountryFromHost(final.Hostname()),
		JobLink:     final.String(),
	}, nil
}

// pageMeta holds the generic fields found in a document.
type pageMeta struct {
	title    string
	h1       string
	ogTitle  string
	siteName string
	appName  string
}

func extractMeta(doc *html.Node) pageMeta {
	var m pageMeta

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if m.title == "" {
					m.title = textContent(n)
				}
			case atom.H1:
				if m.h1 == "" {
					m.h1 = textContent(n)
				}
			case atom.Meta:
				key := strings.ToLower(firstNonEmpty(attr(n, "property"), attr(n, "name")))
				content := collapseSpace(attr(n, "content"))
				switch key {
				case "og:title":
					if m.ogTitle == "" {
						m.ogTitle = content
					}
				case "og:site_name":
					if m.siteName == "" {
						m.siteName = content
					}
				case "application-name":
					if m.appName == "" {
						m.appName = content
					}
				}
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return m
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// textContent returns the whitespace-collapsed text below n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapseSpace(b.String())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
