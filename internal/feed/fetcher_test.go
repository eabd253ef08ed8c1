package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
     xmlns:content="http://purl.org/rss/1.0/modules/content/"
     xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>test</description>
%s
  </channel>
</rss>`

func serveFeed(t *testing.T, items string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, feedTemplate, items)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchContentEncodedWins(t *testing.T) {
	items := `
    <item>
      <title>First</title>
      <link>https://example.com/first</link>
      <description>plain summary</description>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
      <content:encoded><![CDATA[<p>full body</p><img src="https://img.example.com/a.jpg"/>]]></content:encoded>
    </item>`
	srv := serveFeed(t, items)

	f := NewFetcher(srv.URL)
	candidates, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "First", c.Title)
	assert.Equal(t, "plain summary", c.Description)
	assert.Contains(t, c.Body, "full body")
	assert.Equal(t, "https://example.com/first", c.SourceURL)
	assert.Equal(t, "https://img.example.com/a.jpg", c.ImageURL)
	assert.Equal(t, 2006, c.PublishedAt.Year())
}

func TestFetchDescriptionMarkupFallback(t *testing.T) {
	items := `
    <item>
      <title>Second</title>
      <link>https://example.com/second</link>
      <description><![CDATA[<p>markup description</p>]]></description>
      <pubDate>Tue, 03 Jan 2006 10:00:00 GMT</pubDate>
    </item>`
	srv := serveFeed(t, items)

	f := NewFetcher(srv.URL)
	candidates, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Contains(t, candidates[0].Body, "markup description")
}

func TestFetchLinkedPageFallback(t *testing.T) {
	var pageSrv *httptest.Server
	pageSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<article><p>first paragraph</p><p>second paragraph</p></article>
		</body></html>`)
	}))
	defer pageSrv.Close()

	items := fmt.Sprintf(`
    <item>
      <title>Third</title>
      <link>%s/third</link>
      <description>no markup here</description>
      <pubDate>Wed, 04 Jan 2006 10:00:00 GMT</pubDate>
    </item>`, pageSrv.URL)
	srv := serveFeed(t, items)

	f := NewFetcher(srv.URL)
	candidates, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Contains(t, candidates[0].Body, "first paragraph")
	assert.Contains(t, candidates[0].Body, "second paragraph")
}

func TestFetchThinLinkedPageYieldsEmptyBody(t *testing.T) {
	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>only one paragraph</p></body></html>`)
	}))
	defer pageSrv.Close()

	items := fmt.Sprintf(`
    <item>
      <title>Fourth</title>
      <link>%s/fourth</link>
      <description>plain text only</description>
      <pubDate>Thu, 05 Jan 2006 10:00:00 GMT</pubDate>
    </item>`, pageSrv.URL)
	srv := serveFeed(t, items)

	f := NewFetcher(srv.URL)
	candidates, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	// The item is not dropped; it proceeds downstream with an empty body.
	assert.Empty(t, candidates[0].Body)
	assert.Equal(t, "Fourth", candidates[0].Title)
}

func TestFetchImageFromMediaContent(t *testing.T) {
	items := `
    <item>
      <title>Fifth</title>
      <link>https://example.com/fifth</link>
      <description><![CDATA[<p>no image in body</p>]]></description>
      <pubDate>Fri, 06 Jan 2006 10:00:00 GMT</pubDate>
      <media:content url="https://img.example.com/media.jpg" medium="image"/>
    </item>`
	srv := serveFeed(t, items)

	f := NewFetcher(srv.URL)
	candidates, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "https://img.example.com/media.jpg", candidates[0].ImageURL)
}

func TestFetchImageFromEnclosure(t *testing.T) {
	items := `
    <item>
      <title>Sixth</title>
      <link>https://example.com/sixth</link>
      <description><![CDATA[<p>still no image in body</p>]]></description>
      <pubDate>Sat, 07 Jan 2006 10:00:00 GMT</pubDate>
      <enclosure url="https://img.example.com/enclosure.png" type="image/png" length="1234"/>
    </item>`
	srv := serveFeed(t, items)

	f := NewFetcher(srv.URL)
	candidates, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "https://img.example.com/enclosure.png", candidates[0].ImageURL)
}

func TestFetchBodyImageWinsOverEnclosure(t *testing.T) {
	items := `
    <item>
      <title>Seventh</title>
      <link>https://example.com/seventh</link>
      <pubDate>Sun, 08 Jan 2006 10:00:00 GMT</pubDate>
      <content:encoded><![CDATA[<p>body</p><img src="https://img.example.com/inline.gif"/>]]></content:encoded>
      <enclosure url="https://img.example.com/enclosure.png" type="image/png" length="1234"/>
    </item>`
	srv := serveFeed(t, items)

	f := NewFetcher(srv.URL)
	candidates, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "https://img.example.com/inline.gif", candidates[0].ImageURL)
}

func TestFetchMissingPubDateUsesClock(t *testing.T) {
	items := `
    <item>
      <title>Dateless</title>
      <link>https://example.com/dateless</link>
      <description><![CDATA[<p>body</p>]]></description>
    </item>`
	srv := serveFeed(t, items)

	fixed := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	f := NewFetcher(srv.URL)
	f.now = func() time.Time { return fixed }

	candidates, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, fixed, candidates[0].PublishedAt)
}

func TestFetchBrokenFeedReturnsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not XML at all {")
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL)
	candidates, err := f.Fetch(context.Background())
	assert.Nil(t, candidates)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, srv.URL, parseErr.URL)
}

func TestFetchServerErrorReturnsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL)
	_, err := f.Fetch(context.Background())

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}
