// Package services implements the scrape collaborator of the tracker.
//
// # Scraper Interface
//
// A [Scraper] turns a job listing URL into a [models.Candidate]. The tracker never depends on a
// concrete scraper, so manual entry, tests and bulk imports can swap implementations freely.
//
// # PageScraper
//
// [PageScraper] fetches the page over HTTP and reads generic metadata with golang.org/x/net/html:
//   - job title: first <h1>, then og:title, then <title>
//   - company: og:site_name, then application-name
//   - country: guessed from the final host's top-level domain ([CountryFromHost])
//   - link: the URL after redirects
//
// Per-site selector tables are not implemented; pages without the generic markup yield a
// candidate carrying only the link.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrInvalidArgument] : link is not an absolute http(s) URL
//   - [shared.ErrFetchFailed] : transport failure or non-2xx status
//   - [shared.ErrUnsupportedPage] : response is not HTML
package services
