package feed

import (
	"context"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog/log"

	"newsbridge/pkg/textutil"
)

// bodyResolver attempts to produce body content for a feed item. Resolvers
// are tried in order; the first success wins.
type bodyResolver func(ctx context.Context, item *gofeed.Item) (string, bool)

// imageResolver attempts to produce an image URL for a feed item given its
// already-resolved body.
type imageResolver func(item *gofeed.Item, body string) (string, bool)

// resolveContentEncoded takes the <content:encoded> payload when present.
// gofeed maps it onto Item.Content.
func resolveContentEncoded(_ context.Context, item *gofeed.Item) (string, bool) {
	content := strings.TrimSpace(item.Content)
	if content == "" {
		return "", false
	}
	return content, true
}

// resolveDescriptionMarkup accepts the <description> only when it carries
// actual markup; a plain-text description is left for the linked-page path.
func resolveDescriptionMarkup(_ context.Context, item *gofeed.Item) (string, bool) {
	desc := strings.TrimSpace(item.Description)
	if desc == "" || !textutil.HasMarkup(desc) {
		return "", false
	}
	return desc, true
}

// linkedPageResolver fetches the item's original page and extracts its main
// content. Used only when the feed itself carries no structured body.
func (f *Fetcher) linkedPageResolver(ctx context.Context, item *gofeed.Item) (string, bool) {
	if item.Link == "" {
		return "", false
	}

	html, err := f.fetchPage(ctx, item.Link)
	if err != nil {
		log.Warn().Err(err).Str("url", item.Link).Msg("Failed to fetch linked page")
		return "", false
	}

	content, err := ExtractMainContent(html)
	if err != nil {
		log.Debug().Err(err).Str("url", item.Link).Msg("Linked page yielded no usable content")
		return "", false
	}
	return content, true
}

// resolveBodyImage scans the resolved body HTML for its first <img>.
func resolveBodyImage(_ *gofeed.Item, body string) (string, bool) {
	return FirstImageSrc(body)
}

// resolveMediaContent reads the url attribute of a media:content extension
// element.
func resolveMediaContent(item *gofeed.Item, _ string) (string, bool) {
	media, ok := item.Extensions["media"]
	if !ok {
		return "", false
	}
	for _, ext := range media["content"] {
		if url := strings.TrimSpace(ext.Attrs["url"]); url != "" {
			return url, true
		}
	}
	return "", false
}

// resolveEnclosure reads the url attribute of the first enclosure element.
func resolveEnclosure(item *gofeed.Item, _ string) (string, bool) {
	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		if url := strings.TrimSpace(enc.URL); url != "" {
			return url, true
		}
	}
	return "", false
}
