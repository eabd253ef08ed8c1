package feed

import (
	"fmt"
	"time"
)

// Candidate is one normalized, not-yet-persisted unit of work derived from a
// single feed item. It lives only for the duration of one ingestion pass.
type Candidate struct {
	Title       string
	Description string
	Body        string
	PublishedAt time.Time
	SourceURL   string
	ImageURL    string // empty when no image could be resolved
}

// ParseError reports a malformed or unreachable feed. It is returned by the
// fetch boundary so callers can treat a broken feed as an empty run instead
// of crashing.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse feed %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
