package database

import (
	"context"
	"fmt"

	"newsbridge/internal/models"
)

// ArticleStore provides write-side access to the 'articles' table for the
// ingestion pipeline.
type ArticleStore struct {
	db *DB
}

// NewArticleStore creates a store backed by an existing database connection.
func NewArticleStore(db *DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// InsertArticle persists a new article and fills in its generated ID.
func (s *ArticleStore) InsertArticle(ctx context.Context, a *models.Article) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (title, description, body, slug, publish_date, author, published, image_url, source_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Title, a.Description, a.Body, a.Slug, a.PublishDate, a.Author, a.Published,
		a.ImageURL, a.SourceURL,
		// Bind time.Time directly so the stored representation matches the
		// driver's query-side binding; cursor pagination compares on equality.
		a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted article id: %w", err)
	}
	a.ID = id
	return nil
}

// ArticleExists reports whether an article was already imported from the
// given source URL. Exact match on the indexed source_url column.
func (s *ArticleStore) ArticleExists(ctx context.Context, sourceURL string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM articles WHERE source_url = ?", sourceURL)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing article: %w", err)
	}
	return count > 0, nil
}

// CountImportedOn returns how many articles the given author created on the
// given UTC day (YYYY-MM-DD). The daily quota keys on the creation day, not
// on publish_date: feed items carry their own pubDate and an old item
// imported today still spends today's quota.
func (s *ArticleStore) CountImportedOn(ctx context.Context, author, day string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM articles WHERE author = ? AND DATE(created_at) = ?", author, day)
	if err != nil {
		return 0, fmt.Errorf("failed to count imported articles: %w", err)
	}
	return count, nil
}
