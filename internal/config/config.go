package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	// File paths
	DBPath   string
	MediaDir string

	// Feed ingestion settings
	FeedURL         string
	TranslateURL    string
	TranslateAPIKey string
	SourceLang      string
	TargetLang      string
	MaxPerDay       int
	Interval        time.Duration

	// Image pipeline settings
	ImageProxyURL string // optional; empty means fetch origin directly
	PublicBaseURL string

	// Server settings
	ServerHost string
	ServerPort int
	APIKey     string

	// Log settings
	LogLevel zerolog.Level
}

// DefaultConfig returns an initial configuration with hardcoded defaults.
func DefaultConfig() *Config {
	logLevel, _ := zerolog.ParseLevel(DefaultLogLevel)

	return &Config{
		DBPath:          GetEnvString("NEWSBRIDGE_DB_PATH", DefaultDBPath),
		MediaDir:        GetEnvString("NEWSBRIDGE_MEDIA_DIR", DefaultMediaDir),
		FeedURL:         GetEnvString("NEWSBRIDGE_FEED_URL", DefaultFeedURL),
		TranslateURL:    GetEnvString("NEWSBRIDGE_TRANSLATE_URL", DefaultTranslateURL),
		TranslateAPIKey: GetEnvString("NEWSBRIDGE_TRANSLATE_API_KEY", ""),
		SourceLang:      GetEnvString("NEWSBRIDGE_SOURCE_LANG", DefaultSourceLang),
		TargetLang:      GetEnvString("NEWSBRIDGE_TARGET_LANG", DefaultTargetLang),
		MaxPerDay:       GetEnvInt("NEWSBRIDGE_MAX_PER_DAY", DefaultMaxPerDay),
		Interval:        GetEnvDuration("NEWSBRIDGE_INTERVAL", time.Duration(DefaultIntervalHours)*time.Hour),
		ImageProxyURL:   GetEnvString("NEWSBRIDGE_IMAGE_PROXY_URL", ""),
		PublicBaseURL:   GetEnvString("NEWSBRIDGE_PUBLIC_BASE_URL", DefaultPublicBaseURL),
		ServerHost:      GetEnvString("NEWSBRIDGE_HOST", DefaultServerHost),
		ServerPort:      GetEnvInt("NEWSBRIDGE_PORT", DefaultServerPort),
		APIKey:          GetEnvString("NEWSBRIDGE_API_KEY", ""),
		LogLevel:        GetEnvLogLevel("NEWSBRIDGE_LOG_LEVEL", logLevel),
	}
}

// ListenAddr returns the formatted listen address for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}
