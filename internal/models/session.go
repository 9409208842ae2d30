package models

import "strings"

// Session identifies the active user namespace.
//
// It is passed explicitly into every user-scoped operation instead of living in a global.
type Session struct {
	User string `json:"user"`
}

// NewSession returns a session for username with surrounding whitespace removed.
// Usernames are otherwise case-sensitive.
func NewSession(username string) Session {
	return Session{User: strings.TrimSpace(username)}
}

// Valid reports whether the session names a user.
func (s Session) Valid() bool { return s.User != "" }

// Query describes one search over a user's records.
//
// Text is matched case-insensitively as a substring. Limit <= 0 selects the default page size.
type Query struct {
	Text   string `json:"q"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// Page is one window of a sorted, filtered result set.
type Page struct {
	Records []*JobRecord `json:"records"`
	HasMore bool         `json:"hasMore"`
	Total   int          `json:"total"`  // Matches before windowing
	Offset  int          `json:"offset"` // Offset the window starts at
	Limit   int          `json:"limit"`  // Limit applied to the window
}
