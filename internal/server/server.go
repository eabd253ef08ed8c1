package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"newsbridge/internal/config"
	"newsbridge/internal/database"
	"newsbridge/internal/server/api"
	"newsbridge/internal/server/storage"
)

// apiKeyMiddleware checks for the X-API-Key header and validates it against the provided key.
// If key is empty, it allows all requests.
func apiKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			reqApiKey := r.Header.Get("X-API-Key")
			if reqApiKey == "" {
				http.Error(w, "API key required", http.StatusUnauthorized)
				return
			}

			if reqApiKey != apiKey {
				http.Error(w, "Invalid API key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RunServer starts the HTTP server with graceful shutdown support.
// It sets up routes, middleware, and handles OS signals for clean termination.
func RunServer(db *database.DB, cfg *config.Config, logger zerolog.Logger) error {
	// Add service identifier to the logger
	logger = logger.With().Str("service", "newsbridge-api").Logger()

	articleRepo := storage.NewRepository(db)
	articlesHandler := api.NewArticlesHandler(articleRepo)
	proxyHandler := api.NewProxyHandler(cfg.TranslateURL, cfg.TranslateAPIKey)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/articles", articlesHandler.GetArticles)
	mux.HandleFunc("GET /v1/articles/{slug}", articlesHandler.GetArticleBySlug)
	mux.HandleFunc("POST /api/translate", proxyHandler.Translate)
	mux.HandleFunc("POST /api/article-content", proxyHandler.ArticleContent)
	mux.HandleFunc("GET /api/image-proxy", proxyHandler.ImageProxy)
	mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir))))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", healthCheckHandler)

	// Set up middleware chain for logging and request tracking
	h := hlog.NewHandler(logger)(mux)
	h = hlog.MethodHandler("method")(h)
	h = hlog.URLHandler("url")(h)
	h = hlog.RemoteAddrHandler("remote_addr")(h)
	h = hlog.UserAgentHandler("user_agent")(h)
	h = hlog.RequestIDHandler("req_id", "Request-Id")(h)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		idReq, _ := hlog.IDFromRequest(r)

		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Str("req_id", idReq.String()).
			Msg("HTTP Request")
	})(h)

	// Add API key middleware if key is configured
	if cfg.APIKey != "" {
		h = apiKeyMiddleware(cfg.APIKey)(h)
		logger.Info().Msg("API key authentication enabled")
	} else {
		logger.Info().Msg("API key authentication disabled")
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("address", cfg.ListenAddr()).Msg("API Server starting")
		err := httpServer.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Fatal().Err(err).Msg("Server failed to start")

	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("HTTP server shutdown error")
			if err := httpServer.Close(); err != nil {
				logger.Error().Err(err).Msg("HTTP server force close error")
			}
		} else {
			logger.Info().Msg("HTTP server shutdown complete.")
		}
		if err := <-serverErr; err != nil {
			logger.Error().Err(err).Msg("ListenAndServe error during shutdown")
		}
	}

	logger.Info().Msg("Server exiting.")
	return nil
}

// healthCheckHandler responds to health check requests with a simple 200 OK.
// This endpoint is used by monitoring systems to verify the service is operational.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	log.Debug().Msg("Health check request received")

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("Error writing health check response")
	}
}
