// Package ingest orchestrates one ingestion pass: daily-quota accounting,
// feed fetch, newest-first ordering, dedup, translation, image re-hosting
// and persistence. Items are processed strictly sequentially; a single
// candidate's failure never aborts the batch.
package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"newsbridge/internal/feed"
	"newsbridge/internal/metrics"
	"newsbridge/internal/models"
	"newsbridge/pkg/textutil"
)

const dateLayout = "2006-01-02"

// ArticleStore is the persistence surface the pipeline needs.
type ArticleStore interface {
	InsertArticle(ctx context.Context, a *models.Article) error
	ArticleExists(ctx context.Context, sourceURL string) (bool, error)
	CountImportedOn(ctx context.Context, author, day string) (int, error)
}

// FeedFetcher produces the candidates for one run.
type FeedFetcher interface {
	Fetch(ctx context.Context) ([]feed.Candidate, error)
}

// Translator translates a single piece of text.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// ImageUploader re-hosts a remote image and returns a public URL. It never
// fails; exhausted fallbacks yield a placeholder URL.
type ImageUploader interface {
	Upload(ctx context.Context, imageURL, title string) string
}

// Config carries the Ingestor's construction-time settings.
type Config struct {
	Store          ArticleStore
	Fetcher        FeedFetcher
	Translator     Translator
	Uploader       ImageUploader
	Author         string
	MaxPerDay      int
	PlaceholderURL string
}

// RunStats summarizes one ingestion pass.
type RunStats struct {
	Imported   int
	Duplicates int
	Failed     int
	TotalToday int
}

// Ingestor runs the ingestion pipeline.
type Ingestor struct {
	store          ArticleStore
	fetcher        FeedFetcher
	translator     Translator
	uploader       ImageUploader
	author         string
	maxPerDay      int
	placeholderURL string
	now            func() time.Time
}

// NewIngestor creates an ingestor from its collaborators.
func NewIngestor(cfg Config) *Ingestor {
	return &Ingestor{
		store:          cfg.Store,
		fetcher:        cfg.Fetcher,
		translator:     cfg.Translator,
		uploader:       cfg.Uploader,
		author:         cfg.Author,
		maxPerDay:      cfg.MaxPerDay,
		placeholderURL: cfg.PlaceholderURL,
		now:            time.Now,
	}
}

// Run executes one ingestion pass. The only errors it returns are defects in
// the quota accounting itself; everything downstream degrades per item and
// is observable through logs, metrics and the returned stats.
func (i *Ingestor) Run(ctx context.Context) (RunStats, error) {
	start := i.now()
	defer func() {
		metrics.RunDuration.Observe(i.now().Sub(start).Seconds())
	}()

	today := i.now().UTC().Format(dateLayout)

	importedToday, err := i.store.CountImportedOn(ctx, i.author, today)
	if err != nil {
		return RunStats{}, fmt.Errorf("failed to compute daily quota: %w", err)
	}

	if importedToday >= i.maxPerDay {
		log.Info().
			Int("imported_today", importedToday).
			Int("max_per_day", i.maxPerDay).
			Msg("Daily quota already met, skipping run")
		metrics.QuotaExhaustedRuns.Inc()
		return RunStats{TotalToday: importedToday}, nil
	}
	remaining := i.maxPerDay - importedToday

	candidates, err := i.fetcher.Fetch(ctx)
	if err != nil {
		// A broken or unreachable feed is a no-op run, not a crash.
		log.Warn().Err(err).Msg("Feed fetch failed, nothing to ingest")
		return RunStats{TotalToday: importedToday}, nil
	}

	// Newest first, so under a tight quota the most recent content wins.
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].PublishedAt.After(candidates[b].PublishedAt)
	})
	if len(candidates) > remaining {
		candidates = candidates[:remaining]
	}

	stats := RunStats{}
	for _, c := range candidates {
		if created := i.processCandidate(ctx, c, &stats); created {
			if stats.Imported >= remaining {
				break
			}
		}
	}

	stats.TotalToday = importedToday + stats.Imported
	log.Info().
		Int("imported", stats.Imported).
		Int("duplicates", stats.Duplicates).
		Int("failed", stats.Failed).
		Int("total_today", stats.TotalToday).
		Int("max_per_day", i.maxPerDay).
		Msg("Ingestion run finished")

	return stats, nil
}

// processCandidate runs one candidate through dedup, translation, image
// re-hosting and persistence. Returns true when an article was created.
func (i *Ingestor) processCandidate(ctx context.Context, c feed.Candidate, stats *RunStats) bool {
	logger := log.With().Str("source_url", c.SourceURL).Str("title", c.Title).Logger()

	if c.SourceURL == "" {
		logger.Warn().Msg("Candidate has no source URL, skipping")
		stats.Failed++
		metrics.CandidatesFailed.Inc()
		return false
	}

	exists, err := i.store.ArticleExists(ctx, c.SourceURL)
	if err != nil {
		logger.Error().Err(err).Msg("Dedup lookup failed, skipping candidate")
		stats.Failed++
		metrics.CandidatesFailed.Inc()
		return false
	}
	if exists {
		logger.Debug().Msg("Article already imported, skipping")
		stats.Duplicates++
		metrics.DuplicatesSkipped.Inc()
		return false
	}

	title := i.translateOrOriginal(ctx, c.Title, &logger)
	description := i.translateOrOriginal(ctx, c.Description, &logger)
	body := i.translateOrOriginal(ctx, c.Body, &logger)

	imageURL := i.placeholderURL
	if c.ImageURL != "" {
		imageURL = i.uploader.Upload(ctx, c.ImageURL, title)
		if imageURL == i.placeholderURL {
			metrics.ImagePlaceholders.Inc()
		}
	}

	article := models.NewArticle()
	article.Title = title
	article.Description = description
	article.Body = withCitation(body, c.SourceURL)
	article.Slug = textutil.Slugify(title)
	article.PublishDate = c.PublishedAt.UTC().Format(dateLayout)
	article.Author = i.author
	article.ImageURL = imageURL
	article.SourceURL = c.SourceURL

	if err := i.store.InsertArticle(ctx, article); err != nil {
		logger.Error().Err(err).Msg("Failed to persist article")
		stats.Failed++
		metrics.CandidatesFailed.Inc()
		return false
	}

	stats.Imported++
	metrics.ArticlesImported.Inc()
	logger.Info().
		Int64("article_id", article.ID).
		Str("slug", article.Slug).
		Str("publish_date", article.PublishDate).
		Msg("Article imported")
	return true
}

// translateOrOriginal translates text, falling back to the untranslated
// input on any failure. Translation is never a hard dependency.
func (i *Ingestor) translateOrOriginal(ctx context.Context, text string, logger *zerolog.Logger) string {
	translated, err := i.translator.Translate(ctx, text)
	if err != nil {
		logger.Warn().Err(err).Msg("Translation failed, keeping original text")
		metrics.TranslationFallbacks.Inc()
		return text
	}
	return translated
}

// withCitation appends the original article link to the stored body.
func withCitation(body, sourceURL string) string {
	if body == "" {
		return fmt.Sprintf("Source: %s", sourceURL)
	}
	return fmt.Sprintf("%s\n\nSource: %s", body, sourceURL)
}
