package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog/log"
)

const (
	defaultUserAgent = "newsbridge/1.0"
	defaultTimeout   = 20 * time.Second
	maxPageBytes     = 4 << 20 // linked pages larger than this are truncated
)

// Fetcher retrieves the configured feed and normalizes its items into
// Candidates. Failed per-item resolution degrades the candidate (no image,
// minimal body); only a failure to retrieve or parse the feed itself is an
// error.
type Fetcher struct {
	feedURL string
	client  *http.Client
	parser  *gofeed.Parser
	now     func() time.Time

	bodyResolvers  []bodyResolver
	imageResolvers []imageResolver
}

// NewFetcher creates a fetcher for the given feed URL.
func NewFetcher(feedURL string) *Fetcher {
	f := &Fetcher{
		feedURL: feedURL,
		client:  &http.Client{Timeout: defaultTimeout},
		parser:  gofeed.NewParser(),
		now:     time.Now,
	}
	f.bodyResolvers = []bodyResolver{
		resolveContentEncoded,
		resolveDescriptionMarkup,
		f.linkedPageResolver,
	}
	f.imageResolvers = []imageResolver{
		resolveBodyImage,
		resolveMediaContent,
		resolveEnclosure,
	}
	return f
}

// Fetch retrieves the feed and returns one Candidate per item. A feed-level
// retrieval or parse failure returns a *ParseError; callers treat that as an
// empty run.
func (f *Fetcher) Fetch(ctx context.Context) ([]Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
	if err != nil {
		return nil, &ParseError{URL: f.feedURL, Err: err}
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &ParseError{URL: f.feedURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ParseError{URL: f.feedURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, &ParseError{URL: f.feedURL, Err: err}
	}

	candidates := make([]Candidate, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		candidates = append(candidates, f.normalize(ctx, item))
	}

	log.Debug().
		Str("feed", f.feedURL).
		Int("items", len(candidates)).
		Msg("Feed fetched")

	return candidates, nil
}

// normalize builds a Candidate from a raw feed item, running the body and
// image resolver chains. Resolution failures are not errors: the candidate
// simply proceeds downstream with less content.
func (f *Fetcher) normalize(ctx context.Context, item *gofeed.Item) Candidate {
	c := Candidate{
		Title:       strings.TrimSpace(item.Title),
		Description: strings.TrimSpace(item.Description),
		SourceURL:   strings.TrimSpace(item.Link),
	}

	if item.PublishedParsed != nil {
		c.PublishedAt = *item.PublishedParsed
	} else {
		// Keep the ordering total when a feed omits or mangles pubDate.
		c.PublishedAt = f.now()
	}

	for _, resolve := range f.bodyResolvers {
		if body, ok := resolve(ctx, item); ok {
			c.Body = body
			break
		}
	}

	for _, resolve := range f.imageResolvers {
		if url, ok := resolve(item, c.Body); ok {
			c.ImageURL = url
			break
		}
	}

	return c
}

// fetchPage retrieves a linked page's HTML for content extraction.
func (f *Fetcher) fetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
