// Package filter narrows a list of product names by a free-text keyword.
package filter

import (
	"strings"

	"golang.org/x/text/cases"
)

// Result distinguishes "no filtering attempted" from "filtered to nothing".
type Result struct {
	// Searched is false when the query was empty or blank.
	Searched bool     `json:"searched"`
	Matches  []string `json:"matches"`
	// Stored holds each match exactly as it came in, index for index with Matches.
	Stored []string `json:"-"`
}

// Apply keeps every candidate that contains query as a case-insensitive substring,
// preserving input order. Survivors are trimmed of surrounding whitespace for display;
// Stored keeps the untrimmed value for lookups that need the exact name.
func Apply(candidates []string, query string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}
	}

	// A Caser carries state and is not shared between calls.
	fold := cases.Fold()
	needle := fold.String(query)

	matches := make([]string, 0, len(candidates))
	stored := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if strings.Contains(fold.String(c), needle) {
			matches = append(matches, strings.TrimSpace(c))
			stored = append(stored, c)
		}
	}
	return Result{Searched: true, Matches: matches, Stored: stored}
}

// Empty reports a completed search that found nothing.
func (r Result) Empty() bool {
	return r.Searched && len(r.Matches) == 0
}

// Contains reports whether name is one of the matches.
func (r Result) Contains(name string) bool {
	_, ok := r.StoredName(name)
	return ok
}

// StoredName returns the untrimmed candidate behind the displayed match name.
func (r Result) StoredName(name string) (string, bool) {
	for i, m := range r.Matches {
		if m == name {
			if i < len(r.Stored) {
				return r.Stored[i], true
			}
			return m, true
		}
	}
	return "", false
}
