// Package filter reads query parameters for listing landmarks.
package filter

import (
	"net/url"
	"strings"
	"unicode"

	kdb "github.com/opst/landmarks/pkg/db"
)

// query parameter names
const (
	ParamCategory    = "category"
	ParamTitle       = "title"
	ParamDescription = "description"
	ParamSearch      = "search"
)

// Parse reads filters for API listing.
//
// Empty parameters are ignored. The returned query has no scope; callers should set it.
func Parse(q url.Values) kdb.LandmarkQuery {
	return kdb.LandmarkQuery{
		Category:    strings.TrimSpace(q.Get(ParamCategory)),
		Title:       strings.TrimSpace(q.Get(ParamTitle)),
		Description: strings.TrimSpace(q.Get(ParamDescription)),
		Search:      SearchTerms(q.Get(ParamSearch)),
	}
}

// ParseBrowse reads filters for the public listing page.
//
// There, "search" matches title only and "category" is compared as is.
func ParseBrowse(q url.Values) kdb.LandmarkQuery {
	return kdb.LandmarkQuery{
		Scope:         kdb.Unscoped(),
		Title:         strings.TrimSpace(q.Get(ParamSearch)),
		CategoryExact: strings.TrimSpace(q.Get(ParamCategory)),
	}
}

// SearchTerms splits free text into terms on spaces and commas.
func SearchTerms(s string) []string {
	terms := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(terms) == 0 {
		return nil
	}
	return terms
}
