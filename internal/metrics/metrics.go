package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion outcome metrics
	ArticlesImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsbridge_articles_imported_total",
			Help: "Total number of articles created by the ingestion pipeline",
		},
	)

	DuplicatesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsbridge_duplicates_skipped_total",
			Help: "Total number of feed items skipped because their source URL was already imported",
		},
	)

	CandidatesFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsbridge_candidates_failed_total",
			Help: "Total number of feed items whose persistence failed",
		},
	)

	TranslationFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsbridge_translation_fallbacks_total",
			Help: "Total number of fields stored untranslated after a translation failure",
		},
	)

	ImagePlaceholders = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsbridge_image_placeholders_total",
			Help: "Total number of articles stored with the placeholder image after both upload paths failed",
		},
	)

	QuotaExhaustedRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsbridge_quota_exhausted_runs_total",
			Help: "Total number of ingestion runs skipped because the daily quota was already met",
		},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsbridge_run_duration_seconds",
			Help:    "Duration of ingestion runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
