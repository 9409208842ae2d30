package shared

import (
	"net/url"
	"slices"
	"strings"
	"time"
)

// trackingParam reports whether a query parameter key only carries click or session tracking.
//
// Listing identifiers (id, jk, refId, currentJobId, ...) are never matched.
func trackingParam(key string) bool {
	k := strings.ToLower(key)
	switch k {
	case "fbclid", "gclid", "_hs", "source":
		return true
	}
	for _, prefix := range []string{"utm_", "session", "trk", "tracking"} {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// NormalizeURL canonicalizes a job listing URL for duplicate comparison.
//
// Tracking parameters are removed and the remaining pairs are kept as typed, sorted by key.
// Scheme, host, path and fragment are kept as typed, except that an empty http(s) path
// becomes "/". Input that is not an absolute URL is returned trimmed.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return trimmed
	}

	if (u.Scheme == "http" || u.Scheme == "https") && u.Path == "" && u.Opaque == "" {
		u.Path = "/"
		u.RawPath = ""
	}

	u.RawQuery = filterQuery(u.RawQuery)
	u.ForceQuery = false

	return u.String()
}

type queryPair struct {
	key string
	raw string
}

// filterQuery drops tracking pairs from a raw query and sorts the rest by key.
//
// Pairs are split on "&" only. A ";" is part of the pair and bad escapes are kept as typed;
// values of a repeated key keep their order.
func filterQuery(rawQuery string) string {
	pairs := make([]queryPair, 0, strings.Count(rawQuery, "&")+1)
	for part := range strings.SplitSeq(rawQuery, "&") {
		if part == "" {
			continue
		}
		rawKey, _, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			key = rawKey
		}
		if trackingParam(key) {
			continue
		}
		pairs = append(pairs, queryPair{key: rawKey, raw: part})
	}

	slices.SortStableFunc(pairs, func(a, b queryPair) int { return strings.Compare(a.key, b.key) })

	kept := make([]string, len(pairs))
	for i, p := range pairs {
		kept[i] = p.raw
	}
	return strings.Join(kept, "&")
}

// LinkKey returns the identity key of a job link. Empty links have an empty key and
// never identify a record.
func LinkKey(raw string) string {
	return NormalizeURL(raw)
}

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// NormalizeDate converts a date in one of the common layouts to [DateLayout].
//
// Timestamps with a zone are converted to UTC first. Unparseable input is returned trimmed.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(DateLayout)
		}
	}
	return s
}
