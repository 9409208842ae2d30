// package services defines interface Scraper for turning job listing pages into candidate records
package services

import (
	"context"

	"github.com/desertthunder/jobtrack/internal/models"
)

// Scraper extracts a candidate job record from a listing URL.
type Scraper interface {
	// Scrape fetches link and returns whatever fields it could detect.
	// Undetected fields are empty strings; JobLink is always set on success.
	Scrape(ctx context.Context, link string) (*models.Candidate, error)
}

// CountryFromHost guesses the country of a job board from its host's top-level domain.
//
// Unknown hosts yield "".
func CountryFromHost(host string) string {
	switch {
	case hasSuffixFold(host, ".de"):
		return "Germany"
	case hasSuffixFold(host, ".ie"):
		return "Ireland"
	case hasSuffixFold(host, ".uk"):
		return "United Kingdom"
	}
	return ""
}
