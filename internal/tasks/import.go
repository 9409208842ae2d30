package tasks

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
	"golang.org/x/time/rate"
)

const maxImportWorkers = 10

// ImportOpts contains configuration for bulk link imports.
type ImportOpts struct {
	Workers         int     // Concurrent scrapers (default: 3, max: 10)
	RateLimit       float64 // Page fetches per second (default: 2)
	Status          string  // Status for candidates the page does not set
	ApplicationDate string  // Date for candidates the page does not set (default: today)
}

// ImportItem is the outcome for a single link.
type ImportItem struct {
	Link    string            `json:"link"`
	Record  *models.JobRecord `json:"record,omitempty"`
	Created bool              `json:"created"`
	Err     error             `json:"-"`
	Error   string            `json:"error,omitempty"`
}

// ImportResult summarizes a bulk import. Items follow the input order.
type ImportResult struct {
	Items   []ImportItem `json:"items"`
	Total   int          `json:"total"`
	Created int          `json:"created"`
	Updated int          `json:"updated"`
	Failed  int          `json:"failed"`
}

type importJob struct {
	index int
	link  string
}

// Import scrapes every link and upserts the resulting candidates for the session user.
//
// Links are fetched by a pool of workers throttled by a shared [rate.Limiter]. A failing link
// does not stop the others. Blank links are skipped. When a page names no company the
// listing host is used. Cancelling ctx stops queuing; links never processed report the
// context error.
func (t *Tracker) Import(ctx context.Context, s models.Session, links []string, opts ImportOpts, prog chan<- ProgressUpdate) (*ImportResult, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}
	if t.scraper == nil {
		return nil, shared.ErrNoScraper
	}

	if opts.Workers <= 0 {
		opts.Workers = 3
	}
	if opts.Workers > maxImportWorkers {
		opts.Workers = maxImportWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	result := &ImportResult{}
	for _, l := range links {
		if l = strings.TrimSpace(l); l != "" {
			result.Items = append(result.Items, ImportItem{Link: l})
		}
	}
	result.Total = len(result.Items)

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan importJob, result.Total)

	sendProgress(prog, queueLinksUpdate(result.Total))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		finished int
	)
	for range opts.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					return
				}
				item := t.importLink(ctx, s, job.link, opts)

				mu.Lock()
				result.Items[job.index] = item
				finished++
				step := finished
				mu.Unlock()

				if item.Err != nil {
					sendProgress(prog, importFailedUpdate(step, result.Total, item.Link, item.Err))
				} else {
					sendProgress(prog, saveRecordUpdate(step, result.Total, item.Record, item.Created))
				}
			}
		}()
	}

	for i, item := range result.Items {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		sendProgress(prog, fetchPageUpdate(i+1, result.Total, item.Link))
		jobs <- importJob{index: i, link: item.Link}
	}
	close(jobs)
	wg.Wait()

	for i := range result.Items {
		item := &result.Items[i]
		if item.Err == nil && item.Record == nil {
			item.Err = ctx.Err()
			if item.Err == nil {
				item.Err = context.Canceled
			}
		}
		switch {
		case item.Err != nil:
			item.Error = item.Err.Error()
			result.Failed++
		case item.Created:
			result.Created++
		default:
			result.Updated++
		}
	}

	t.logger.Info("imported links", "user", s.User, "total", result.Total, "created", result.Created, "updated", result.Updated, "failed", result.Failed)
	sendProgress(prog, importDoneUpdate(result))

	return result, ctx.Err()
}

// importLink scrapes and saves a single link.
func (t *Tracker) importLink(ctx context.Context, s models.Session, link string, opts ImportOpts) ImportItem {
	item := ImportItem{Link: link}

	c, err := t.scraper.Scrape(ctx, link)
	if err != nil {
		item.Err = fmt.Errorf("scrape failed: %w", err)
		return item
	}
	if c == nil {
		item.Err = fmt.Errorf("scrape failed: %w", shared.ErrUnsupportedPage)
		return item
	}

	if c.JobLink == "" {
		c.JobLink = link
	}
	if c.CompanyName == "" {
		c.CompanyName = hostLabel(c.JobLink)
	}
	if c.Status == "" {
		c.Status = opts.Status
	}
	if c.ApplicationDate == "" {
		c.ApplicationDate = opts.ApplicationDate
	}

	res, err := t.Upsert(ctx, s, *c)
	if err != nil {
		item.Err = err
		return item
	}

	item.Record = res.Record
	item.Created = res.Created
	return item
}

// hostLabel returns the host of link without a leading "www.".
func hostLabel(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
