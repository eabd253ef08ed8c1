package models

import "time"

// Article represents a row in the 'articles' table
type Article struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Body        string    `db:"body" json:"body"`
	Slug        string    `db:"slug" json:"slug"`
	PublishDate string    `db:"publish_date" json:"publish_date"` // YYYY-MM-DD, UTC
	Author      string    `db:"author" json:"author"`
	Published   bool      `db:"published" json:"published"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	SourceURL   string    `db:"source_url" json:"source_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// NewArticle creates a new Article with default values
func NewArticle() *Article {
	now := time.Now().UTC()
	return &Article{
		Published: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
