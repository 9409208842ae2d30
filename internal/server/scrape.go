package server

import (
	"net/http"

	"github.com/desertthunder/jobtrack/internal/services"
	"github.com/desertthunder/jobtrack/internal/shared"
	"github.com/desertthunder/jobtrack/internal/tasks"
)

// ScrapeHandler turns a listing URL into a candidate and optionally saves it.
type ScrapeHandler struct {
	tracker *tasks.Tracker
	scraper services.Scraper
}

type scrapeRequest struct {
	URL  string `json:"url"`
	Save bool   `json:"save"`
}

// NewScrapeHandler creates a [ScrapeHandler]. A nil scraper answers 503.
func NewScrapeHandler(tracker *tasks.Tracker, scraper services.Scraper) *ScrapeHandler {
	return &ScrapeHandler{tracker: tracker, scraper: scraper}
}

// Routes returns the HTTP routes this handler serves.
func (h *ScrapeHandler) Routes() []string {
	return []string{"/api/scrape"}
}

// ServeHTTP serves POST /api/scrape. With save set the candidate is upserted for the request's user.
func (h *ScrapeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, errMethodNotAllowed)
		return
	}
	if h.scraper == nil {
		writeError(w, shared.ErrNoScraper)
		return
	}

	var req scrapeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	c, err := h.scraper.Scrape(r.Context(), req.URL)
	if err != nil {
		writeError(w, err)
		return
	}

	if !req.Save {
		writeJSON(w, http.StatusOK, c)
		return
	}

	s, err := sessionFor(r.Context(), h.tracker, r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.tracker.Upsert(r.Context(), s, *c)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}
