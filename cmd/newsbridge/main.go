package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"newsbridge/internal/config"
	"newsbridge/internal/database"
	"newsbridge/internal/feed"
	"newsbridge/internal/ingest"
	"newsbridge/internal/media"
	"newsbridge/internal/scheduler"
	"newsbridge/internal/server"
	"newsbridge/internal/translate"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	// Optional local overrides; missing .env is not an error.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded environment from .env")
	}
}

func main() {
	cfg := config.DefaultConfig()

	ingestCmd := flag.NewFlagSet("ingest", flag.ExitOnError)
	addCommonFlags(ingestCmd, cfg)

	var reset bool
	ingestCmd.BoolVar(&reset, "reset", false,
		"Delete the existing database before ingesting (prompts for confirmation)")

	startCmd := flag.NewFlagSet("start", flag.ExitOnError)
	addCommonFlags(startCmd, cfg)

	var intervalHours int
	startCmd.IntVar(&intervalHours, "interval", int(cfg.Interval.Hours()),
		"Interval in hours between ingestion runs (env: NEWSBRIDGE_INTERVAL)")

	serverCmd := flag.NewFlagSet("server", flag.ExitOnError)
	addCommonFlags(serverCmd, cfg)
	serverCmd.StringVar(&cfg.ServerHost, "host", cfg.ServerHost,
		"Host to bind the server to (env: NEWSBRIDGE_HOST)")
	serverCmd.IntVar(&cfg.ServerPort, "port", cfg.ServerPort,
		"Port to listen on (env: NEWSBRIDGE_PORT)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ingest":
		ingestCmd.Parse(os.Args[2:])
		zerolog.SetGlobalLevel(cfg.LogLevel)

		if err := runIngest(cfg, reset); err != nil {
			log.Error().Err(err).Msg("Ingestion failed")
			os.Exit(1)
		}

	case "start":
		startCmd.Parse(os.Args[2:])
		zerolog.SetGlobalLevel(cfg.LogLevel)
		cfg.Interval = time.Duration(intervalHours) * time.Hour

		if err := runStart(cfg); err != nil {
			log.Error().Err(err).Msg("Scheduler failed")
			os.Exit(1)
		}

	case "server":
		serverCmd.Parse(os.Args[2:])
		zerolog.SetGlobalLevel(cfg.LogLevel)

		if err := runServer(cfg); err != nil {
			log.Error().Err(err).Msg("Server failed")
			os.Exit(1)
		}

	case "-h", "--help", "help":
		printUsage()
		os.Exit(0)

	default:
		log.Error().Str("command", os.Args[1]).Msg("Unknown command")
		printUsage()
		os.Exit(1)
	}
}

func addCommonFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath,
		"Path to the SQLite database file (env: NEWSBRIDGE_DB_PATH)")
	fs.StringVar(&cfg.FeedURL, "feed", cfg.FeedURL,
		"Feed URL to ingest from (env: NEWSBRIDGE_FEED_URL)")
	fs.StringVar(&cfg.MediaDir, "media-dir", cfg.MediaDir,
		"Directory for re-hosted images (env: NEWSBRIDGE_MEDIA_DIR)")
	fs.IntVar(&cfg.MaxPerDay, "max-per-day", cfg.MaxPerDay,
		"Maximum articles created per calendar day (env: NEWSBRIDGE_MAX_PER_DAY)")

	fs.Func("log-level", "Log level: debug, info, warn, error (env: NEWSBRIDGE_LOG_LEVEL)", func(s string) error {
		level, err := zerolog.ParseLevel(s)
		if err != nil {
			return fmt.Errorf("invalid log level %q", s)
		}
		cfg.LogLevel = level
		return nil
	})
}

func printUsage() {
	fmt.Println("Usage: newsbridge [command] [options]")
	fmt.Println("Commands: ingest, start, server")
	fmt.Println("\nFor command-specific options, use: newsbridge [command] -h")
}

// buildIngestor wires the pipeline's collaborators from configuration.
func buildIngestor(cfg *config.Config, db *database.DB) *ingest.Ingestor {
	store := database.NewArticleStore(db)
	fetcher := feed.NewFetcher(cfg.FeedURL)
	translator := translate.NewClient(cfg.TranslateURL, cfg.TranslateAPIKey, cfg.SourceLang, cfg.TargetLang)
	uploader := media.NewUploader(media.Config{
		Store:          media.NewFileStore(cfg.MediaDir, cfg.PublicBaseURL),
		KeyPrefix:      config.ImageKeyPrefix,
		PlaceholderURL: config.PlaceholderImageURL,
		ProxyURL:       cfg.ImageProxyURL,
	})

	return ingest.NewIngestor(ingest.Config{
		Store:          store,
		Fetcher:        fetcher,
		Translator:     translator,
		Uploader:       uploader,
		Author:         config.FeedAuthor,
		MaxPerDay:      cfg.MaxPerDay,
		PlaceholderURL: config.PlaceholderImageURL,
	})
}

// confirmAndDeleteDB prompts before removing an existing database file.
func confirmAndDeleteDB(dbPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		return nil
	}

	fmt.Printf("Database %s already exists. All imported articles will be lost.\n", dbPath)
	fmt.Print("Delete and recreate? (y/N): ")

	var answer string
	fmt.Scanln(&answer)

	if strings.ToLower(answer) != "y" {
		log.Info().Msg("Operation canceled by user")
		return fmt.Errorf("operation canceled by user")
	}

	if err := database.DeleteDB(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	log.Info().Str("path", dbPath).Msg("Deleted existing database")
	return nil
}

// runIngest executes a single ingestion pass and exits.
func runIngest(cfg *config.Config, reset bool) error {
	if reset {
		if err := confirmAndDeleteDB(cfg.DBPath); err != nil {
			return err
		}
	}

	dbCfg := database.NewConfig(cfg.DBPath)
	db, err := database.NewDB(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	ingestor := buildIngestor(cfg, db)

	startTime := time.Now()
	stats, err := ingestor.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingestion run failed: %w", err)
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Int("imported", stats.Imported).
		Int("duplicates", stats.Duplicates).
		Int("failed", stats.Failed).
		Msg("One-shot ingestion completed")
	return nil
}

// runStart runs the ingestion scheduler until a shutdown signal arrives.
func runStart(cfg *config.Config) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", cfg.Interval)
	}

	dbCfg := database.NewConfig(cfg.DBPath)
	db, err := database.NewDB(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ingestor := buildIngestor(cfg, db)
	sched := scheduler.New(scheduler.RunnerFunc(func(ctx context.Context) error {
		_, err := ingestor.Run(ctx)
		return err
	}), cfg.Interval)

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	sig := <-shutdown
	log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	cancel()
	sched.Stop()
	return nil
}

// runServer starts the HTTP API server with the provided configuration.
func runServer(cfg *config.Config) error {
	dbCfg := database.NewConfig(cfg.DBPath)
	dbCfg.ReadOnly = true

	db, err := database.NewDB(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	return server.RunServer(db, cfg, log.Logger)
}
