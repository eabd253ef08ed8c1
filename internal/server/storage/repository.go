package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"newsbridge/internal/database"
	"newsbridge/internal/models"
)

// ArticleRepository defines read operations for published articles.
type ArticleRepository interface {
	FetchArticles(ctx context.Context, limit int, since *time.Time, cursorTimestamp *time.Time, cursorID *int64) ([]models.Article, error)
	FetchArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
}

// sqlxRepository implements ArticleRepository using sqlx.
type sqlxRepository struct {
	db *database.DB
}

// NewRepository creates a new repository instance.
func NewRepository(db *database.DB) ArticleRepository {
	return &sqlxRepository{db: db}
}

// FetchArticles retrieves published articles based on time or cursor.
func (r *sqlxRepository) FetchArticles(ctx context.Context, limit int, since *time.Time, cursorTimestamp *time.Time, cursorID *int64) ([]models.Article, error) {
	var articles []models.Article
	var query string
	var args []any

	// We must order consistently for cursor pagination to work.
	const baseQuery = `SELECT * FROM articles WHERE published = 1 `
	const orderBy = ` ORDER BY created_at ASC, id ASC LIMIT ?`

	if cursorTimestamp != nil && cursorID != nil {
		// Paginate using cursor (timestamp and ID of the last item from previous page)
		query = baseQuery + `AND ((created_at > ?) OR (created_at = ? AND id > ?))` + orderBy
		args = append(args, cursorTimestamp.UTC(), cursorTimestamp.UTC(), *cursorID, limit)
	} else if since != nil {
		// First page request using 'since' timestamp
		query = baseQuery + `AND created_at > ?` + orderBy
		args = append(args, since.UTC(), limit)
	} else {
		// Should not happen if handler validates properly, but return error just in case.
		return nil, fmt.Errorf("either 'since' or cursor parameters must be provided")
	}

	err := r.db.SelectContext(ctx, &articles, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.Article{}, nil // Return empty slice, not error
		}
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	return articles, nil
}

// FetchArticleBySlug retrieves a single published article by its slug.
func (r *sqlxRepository) FetchArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.GetContext(ctx, &article,
		"SELECT * FROM articles WHERE published = 1 AND slug = ? ORDER BY id DESC LIMIT 1", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &article, nil
}
