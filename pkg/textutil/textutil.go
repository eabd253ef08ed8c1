// Package textutil provides small pure string helpers shared by the
// ingestion pipeline and the API layer.
package textutil

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	spaceRuns    = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// Slugify derives a URL-safe slug from a title: lowercase, strip everything
// outside word characters, whitespace and hyphens, collapse whitespace runs
// to single hyphens, collapse repeated hyphens and trim the ends.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = spaceRuns.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// HasMarkup reports whether text looks like it contains HTML. The heuristic
// mirrors the feed-body fallback rule: both an opening and a closing angle
// bracket must be present.
func HasMarkup(s string) bool {
	return strings.Contains(s, "<") && strings.Contains(s, ">")
}
