package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsbridge/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := NewConfig(":memory:")
	// A pooled second connection would see its own empty in-memory database.
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1

	db, err := NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testArticle(n int, publishDate string) *models.Article {
	a := models.NewArticle()
	a.Title = fmt.Sprintf("Title %d", n)
	a.Description = "desc"
	a.Body = fmt.Sprintf("<p>body %d</p>\n\nSource: https://example.com/%d", n, n)
	a.Slug = fmt.Sprintf("title-%d", n)
	a.PublishDate = publishDate
	a.Author = "rss-import"
	a.ImageURL = "/media/feed-images/x.png"
	a.SourceURL = fmt.Sprintf("https://example.com/%d", n)
	return a
}

func TestInsertArticleAssignsID(t *testing.T) {
	db := newTestDB(t)
	store := NewArticleStore(db)

	a := testArticle(1, "2026-08-29")
	require.NoError(t, store.InsertArticle(context.Background(), a))
	assert.Positive(t, a.ID)

	b := testArticle(2, "2026-08-29")
	require.NoError(t, store.InsertArticle(context.Background(), b))
	assert.Greater(t, b.ID, a.ID)
}

func TestArticleExists(t *testing.T) {
	db := newTestDB(t)
	store := NewArticleStore(db)
	ctx := context.Background()

	require.NoError(t, store.InsertArticle(ctx, testArticle(1, "2026-08-29")))

	exists, err := store.ArticleExists(ctx, "https://example.com/1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ArticleExists(ctx, "https://example.com/2")
	require.NoError(t, err)
	assert.False(t, exists)

	// Exact match only: a URL that prefixes a stored one is not a duplicate.
	exists, err = store.ArticleExists(ctx, "https://example.com/")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDuplicateSourceURLRejectedByIndex(t *testing.T) {
	db := newTestDB(t)
	store := NewArticleStore(db)
	ctx := context.Background()

	require.NoError(t, store.InsertArticle(ctx, testArticle(1, "2026-08-29")))

	dup := testArticle(1, "2026-08-29")
	err := store.InsertArticle(ctx, dup)
	assert.Error(t, err, "unique index on source_url must reject the duplicate")
}

func TestCountImportedOn(t *testing.T) {
	db := newTestDB(t)
	store := NewArticleStore(db)
	ctx := context.Background()

	today := time.Now().UTC()
	yesterday := today.AddDate(0, 0, -1)

	// Stale pubDates still spend today's quota: the count keys on the
	// creation day, not on publish_date.
	require.NoError(t, store.InsertArticle(ctx, testArticle(1, "2026-01-05")))
	require.NoError(t, store.InsertArticle(ctx, testArticle(2, "2025-11-30")))

	old := testArticle(3, "2026-08-28")
	old.CreatedAt = yesterday
	old.UpdatedAt = yesterday
	require.NoError(t, store.InsertArticle(ctx, old))

	other := testArticle(4, today.Format("2006-01-02"))
	other.Author = "editor"
	require.NoError(t, store.InsertArticle(ctx, other))

	count, err := store.CountImportedOn(ctx, "rss-import", today.Format("2006-01-02"))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.CountImportedOn(ctx, "rss-import", yesterday.Format("2006-01-02"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInsertedTimestampsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	store := NewArticleStore(db)
	ctx := context.Background()

	a := testArticle(1, "2026-08-29")
	require.NoError(t, store.InsertArticle(ctx, a))

	var got models.Article
	require.NoError(t, db.GetContext(ctx, &got, "SELECT * FROM articles WHERE id = ?", a.ID))

	assert.Equal(t, a.Title, got.Title)
	assert.Equal(t, a.SourceURL, got.SourceURL)
	assert.True(t, got.Published)
	assert.WithinDuration(t, time.Now().UTC(), got.CreatedAt, time.Minute)
}
