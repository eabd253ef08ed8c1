package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"

	"newsbridge/internal/feed"
)

const proxyTimeout = 30 * time.Second
const maxProxyBytes = 16 << 20

// ProxyHandler serves the SPA-facing proxy endpoints: translation
// forwarding, article content extraction and image fetching. They exist so
// the browser client never talks to third-party origins directly.
type ProxyHandler struct {
	translateURL string
	apiKey       string
	client       *http.Client
}

// NewProxyHandler creates the proxy endpoints handler.
func NewProxyHandler(translateURL, translateAPIKey string) *ProxyHandler {
	return &ProxyHandler{
		translateURL: translateURL,
		apiKey:       translateAPIKey,
		client:       &http.Client{Timeout: proxyTimeout},
	}
}

type translateRequest struct {
	Text       string `json:"text"`
	APIKey     string `json:"apiKey"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}

// Translate forwards a translation request to the configured provider.
func (p *ProxyHandler) Translate(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Invalid translate request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		writeJSON(w, log, map[string]string{"translatedText": ""})
		return
	}
	if req.APIKey == "" {
		req.APIKey = p.apiKey
	}

	payload, err := json.Marshal(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode upstream translate request")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	upstream, err := http.NewRequestWithContext(r.Context(), http.MethodPost, p.translateURL, bytes.NewReader(payload))
	if err != nil {
		log.Error().Err(err).Msg("Failed to build upstream translate request")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	upstream.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(upstream)
	if err != nil {
		log.Warn().Err(err).Msg("Translation provider unreachable")
		http.Error(w, "Translation provider unreachable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Msg("Translation provider returned error")
		http.Error(w, "Translation provider error", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := io.Copy(w, io.LimitReader(resp.Body, maxProxyBytes)); err != nil {
		log.Error().Err(err).Msg("Error streaming translation response")
	}
}

type articleContentRequest struct {
	URL string `json:"url"`
}

type articleContentResponse struct {
	Success bool   `json:"success"`
	HTML    string `json:"html,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ArticleContent fetches a remote page and extracts its main content.
func (p *ProxyHandler) ArticleContent(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	var req articleContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Invalid article-content request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !validProxyTarget(req.URL) {
		http.Error(w, "Invalid 'url' parameter", http.StatusBadRequest)
		return
	}

	upstream, err := http.NewRequestWithContext(r.Context(), http.MethodGet, req.URL, nil)
	if err != nil {
		http.Error(w, "Invalid 'url' parameter", http.StatusBadRequest)
		return
	}

	resp, err := p.client.Do(upstream)
	if err != nil {
		log.Warn().Err(err).Str("url", req.URL).Msg("Failed to fetch article page")
		writeJSON(w, log, articleContentResponse{Success: false, Error: "fetch failed"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		writeJSON(w, log, articleContentResponse{Success: false, Error: "unexpected upstream status"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyBytes))
	if err != nil {
		writeJSON(w, log, articleContentResponse{Success: false, Error: "read failed"})
		return
	}

	content, err := feed.ExtractMainContent(string(body))
	if err != nil {
		log.Debug().Err(err).Str("url", req.URL).Msg("No usable article content extracted")
		writeJSON(w, log, articleContentResponse{Success: false, Error: "no usable content"})
		return
	}

	writeJSON(w, log, articleContentResponse{Success: true, HTML: content})
}

// ImageProxy streams a remote image through the server.
func (p *ProxyHandler) ImageProxy(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	target := r.URL.Query().Get("url")
	if !validProxyTarget(target) {
		http.Error(w, "Invalid 'url' parameter", http.StatusBadRequest)
		return
	}

	upstream, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		http.Error(w, "Invalid 'url' parameter", http.StatusBadRequest)
		return
	}

	resp, err := p.client.Do(upstream)
	if err != nil {
		log.Warn().Err(err).Str("url", target).Msg("Failed to fetch proxied image")
		http.Error(w, "Image fetch failed", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		http.Error(w, "Image fetch failed", http.StatusBadGateway)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		log.Warn().Str("url", target).Str("content_type", contentType).Msg("Proxied resource is not an image")
		http.Error(w, "Resource is not an image", http.StatusUnsupportedMediaType)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, io.LimitReader(resp.Body, maxProxyBytes)); err != nil {
		log.Error().Err(err).Msg("Error streaming proxied image")
	}
}

func validProxyTarget(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
