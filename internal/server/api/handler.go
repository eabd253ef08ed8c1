package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"newsbridge/internal/models"
	"newsbridge/internal/server/pagination"
	"newsbridge/internal/server/storage"
)

const defaultLimit = 100
const maxLimit = 1000
const iso8601Format = time.RFC3339

// Response structure for the articles endpoint
type Response struct {
	Articles   []models.Article `json:"articles"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

// ArticlesHandler holds dependencies for the API handler.
type ArticlesHandler struct {
	repo storage.ArticleRepository
}

// NewArticlesHandler creates a new handler instance.
func NewArticlesHandler(repo storage.ArticleRepository) *ArticlesHandler {
	return &ArticlesHandler{
		repo: repo,
	}
}

// GetArticles handles requests to list published articles.
func (h *ArticlesHandler) GetArticles(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	log.Debug().Msg("Processing articles request")

	ctx := r.Context()

	query := r.URL.Query()
	limitStr := query.Get("limit")
	sinceStr := query.Get("since")
	cursorStr := query.Get("cursor")

	limit := defaultLimit
	if limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err != nil || parsedLimit <= 0 || parsedLimit > maxLimit {
			log.Warn().Err(err).Str("limit", limitStr).Msg("Invalid 'limit' parameter value")
			http.Error(w, fmt.Sprintf("Invalid 'limit' parameter: must be between 1 and %d", maxLimit), http.StatusBadRequest)
			return
		}
		limit = parsedLimit
	}

	var since *time.Time
	var cursorTimestamp *time.Time
	var cursorID *int64

	if cursorStr != "" {
		ts, id, err := pagination.DecodeCursor(cursorStr)
		if err != nil {
			log.Warn().Err(err).Str("cursor", cursorStr).Msg("Invalid 'cursor' parameter")
			http.Error(w, "Invalid 'cursor' parameter", http.StatusBadRequest)
			return
		}
		cursorTimestamp = &ts
		cursorID = &id
	} else if sinceStr != "" {
		parsedSince, err := time.Parse(iso8601Format, sinceStr)
		if err != nil {
			log.Warn().Err(err).Str("since", sinceStr).Msg("Invalid 'since' parameter format")
			http.Error(w, "Invalid 'since' parameter: use RFC3339 format (e.g., 2025-03-28T15:00:00Z)", http.StatusBadRequest)
			return
		}
		utcSince := parsedSince.UTC()
		since = &utcSince
	} else {
		// Default to the beginning of time so the public site can fetch
		// the first page without parameters.
		epoch := time.Unix(0, 0).UTC()
		since = &epoch
	}

	articles, err := h.repo.FetchArticles(ctx, limit+1, since, cursorTimestamp, cursorID) // Fetch one extra
	if err != nil {
		errLogEvent := log.Error().Err(err)
		if since != nil {
			errLogEvent = errLogEvent.Time("since", *since)
		}
		errLogEvent.Str("cursor", cursorStr).Msg("Error fetching articles from repository")

		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var nextCursorStr *string
	hasNextPage := len(articles) > limit
	actualArticles := articles
	if hasNextPage {
		actualArticles = articles[:limit]
		if len(actualArticles) > 0 {
			lastArticle := actualArticles[len(actualArticles)-1]
			cursor := pagination.EncodeCursor(lastArticle.CreatedAt.UTC(), lastArticle.ID)
			nextCursorStr = &cursor
		}
	}

	response := Response{
		Articles:   actualArticles,
		NextCursor: nextCursorStr,
	}

	writeJSON(w, log, response)
}

// GetArticleBySlug handles requests for a single article.
func (h *ArticlesHandler) GetArticleBySlug(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	slug := strings.TrimSpace(r.PathValue("slug"))
	if slug == "" {
		http.Error(w, "Missing article slug", http.StatusBadRequest)
		return
	}

	article, err := h.repo.FetchArticleBySlug(r.Context(), slug)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Error fetching article from repository")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if article == nil {
		http.Error(w, "Article not found", http.StatusNotFound)
		return
	}

	writeJSON(w, log, article)
}

func writeJSON(w http.ResponseWriter, log *zerolog.Logger, v any) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling JSON response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, writeErr := w.Write(jsonBytes); writeErr != nil {
		log.Error().Err(writeErr).Msg("Error writing JSON response body to client")
	}
}
