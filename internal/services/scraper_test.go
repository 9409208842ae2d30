package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/jobtrack/internal/shared"
	th "github.com/desertthunder/jobtrack/internal/testing"
)

const listingPage = `<!doctype html>
<html>
<head>
	<title>Backend Engineer | Acme Careers</title>
	<meta property="og:title" content="Backend Engineer (Go)">
	<meta property="og:site_name" content="  Acme   Corp ">
	<script>var h1 = "<h1>not a heading</h1>";</script>
</head>
<body>
	<h1>
		Senior   Backend
		<span>Engineer</span>
	</h1>
	<h1>Second heading</h1>
</body>
</html>`

func newTestScraper(t *testing.T, handler http.HandlerFunc) (*PageScraper, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPageScraper(shared.ScraperConfig{UserAgent: "jobtrack-test", TimeoutSeconds: 5}, srv.Client()), srv
}

func TestPageScraper(t *testing.T) {
	ctx := context.Background()

	t.Run("Extracts Metadata", func(t *testing.T) {
		var gotUA string
		scraper, srv := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			io.WriteString(w, listingPage)
		})

		c, err := scraper.Scrape(ctx, srv.URL+"/jobs/42?utm_source=x")
		if err != nil {
			t.Fatalf("Scrape() error = %v", err)
		}

		if c.JobTitle != "Senior Backend Engineer" {
			t.Errorf("expected h1 title, got %q", c.JobTitle)
		}
		if c.CompanyName != "Acme Corp" {
			t.Errorf("expected site name, got %q", c.CompanyName)
		}
		if c.JobLink != srv.URL+"/jobs/42?utm_source=x" {
			t.Errorf("unexpected link %q", c.JobLink)
		}
		if c.CountryName != "" {
			t.Errorf("expected no country for test host, got %q", c.CountryName)
		}
		if gotUA != "jobtrack-test" {
			t.Errorf("expected configured user agent, got %q", gotUA)
		}
	})

	t.Run("Falls Back To Title", func(t *testing.T) {
		scraper, srv := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, `<html><head><title> Data Engineer - Globex </title>
				<meta name="application-name" content="Globex"></head><body></body></html>`)
		})

		c, err := scraper.Scrape(ctx, srv.URL)
		if err != nil {
			t.Fatalf("Scrape() error = %v", err)
		}
		if c.JobTitle != "Data Engineer - Globex" {
			t.Errorf("expected document title, got %q", c.JobTitle)
		}
		if c.CompanyName != "Globex" {
			t.Errorf("expected application-name, got %q", c.CompanyName)
		}
	})

	t.Run("Follows Redirects", func(t *testing.T) {
		scraper, srv := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/short" {
				http.Redirect(w, r, "/jobs/7", http.StatusFound)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, "<title>Job</title>")
		})

		c, err := scraper.Scrape(ctx, srv.URL+"/short")
		if err != nil {
			t.Fatalf("Scrape() error = %v", err)
		}
		if c.JobLink != srv.URL+"/jobs/7" {
			t.Errorf("expected final URL, got %q", c.JobLink)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name    string
			handler http.HandlerFunc
			link    string
			wantErr error
		}{
			{
				name: "not found",
				handler: func(w http.ResponseWriter, r *http.Request) {
					http.NotFound(w, r)
				},
				wantErr: shared.ErrFetchFailed,
			},
			{
				name: "json response",
				handler: func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					io.WriteString(w, `{}`)
				},
				wantErr: shared.ErrUnsupportedPage,
			},
			{
				name:    "relative link",
				link:    "/jobs/42",
				wantErr: shared.ErrInvalidArgument,
			},
			{
				name:    "ftp link",
				link:    "ftp://x.test/jobs",
				wantErr: shared.ErrInvalidArgument,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				handler := tt.handler
				if handler == nil {
					handler = func(w http.ResponseWriter, r *http.Request) {
						t.Error("no request expected")
					}
				}
				scraper, srv := newTestScraper(t, handler)

				link := tt.link
				if link == "" {
					link = srv.URL
				}

				_, err := scraper.Scrape(ctx, link)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Scrape() error = %v, want %v", err, tt.wantErr)
				}
			})
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{Transport: th.NewMockRoundTripper(nil, errors.New("connection refused"))}
		scraper := NewPageScraper(shared.ScraperConfig{}, client)

		_, err := scraper.Scrape(ctx, "https://jobs.example.de/1")
		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Errorf("expected fetch failure, got %v", err)
		}
	})

	t.Run("Body Read Failure", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"text/html"}},
			Body:       &th.FCloser{},
		}
		client := &http.Client{Transport: th.NewMockRoundTripper(resp, nil)}
		scraper := NewPageScraper(shared.ScraperConfig{}, client)

		_, err := scraper.Scrape(ctx, "https://jobs.example.de/1")
		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Errorf("expected fetch failure, got %v", err)
		}
	})

	t.Run("Country From Final Host", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"text/html"}},
			Body:       io.NopCloser(strings.NewReader("<h1>Entwickler</h1>")),
		}
		client := &http.Client{Transport: th.NewMockRoundTripper(resp, nil)}
		scraper := NewPageScraper(shared.ScraperConfig{}, client)

		c, err := scraper.Scrape(ctx, "https://www.stepstone.de/job/1")
		if err != nil {
			t.Fatalf("Scrape() error = %v", err)
		}
		if c.CountryName != "Germany" || c.JobTitle != "Entwickler" {
			t.Errorf("unexpected candidate %+v", c)
		}
	})
}

func TestCountryFromHost(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{host: "www.stepstone.de", want: "Germany"},
		{host: "JOBS.IE", want: "Ireland"},
		{host: "www.reed.co.uk", want: "United Kingdom"},
		{host: "gov.uk", want: "United Kingdom"},
		{host: "linkedin.com", want: ""},
		{host: "de", want: ""},
		{host: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := CountryFromHost(tt.host); got != tt.want {
				t.Errorf("CountryFromHost(%q) = %q, want %q", tt.host, got, tt.want)
			}
		})
	}
}
