package config

// Constants defining default values for application configuration
const (
	DefaultDBPath   = "./newsbridge.db"
	DefaultMediaDir = "./media"

	DefaultFeedURL = "https://feeds.feedburner.com/TheAiReport"

	// DefaultTranslateURL is intentionally empty: without a configured
	// provider, articles are stored in their source language.
	DefaultTranslateURL = ""

	DefaultSourceLang    = "en"
	DefaultTargetLang    = "lt"
	DefaultPublicBaseURL = "http://localhost:8080"

	// PlaceholderImageURL is stored when every image path fails.
	PlaceholderImageURL = "/media/placeholder/article-default.png"

	// FeedAuthor marks feed-sourced articles; the daily quota counts rows
	// carrying it.
	FeedAuthor = "rss-import"

	// ImageKeyPrefix is the object-store prefix for re-hosted feed images.
	ImageKeyPrefix = "feed-images"

	DefaultServerPort = 8080
	DefaultServerHost = "" // Empty string means all interfaces

	DefaultMaxPerDay     = 1  // Articles created per calendar day
	DefaultIntervalHours = 24 // Hours between ingestion runs

	DefaultLogLevel = "debug"
)
