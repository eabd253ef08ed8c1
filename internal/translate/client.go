// Package translate talks to the translation endpoint. Translation is a
// best-effort enhancement: callers fall back to the untranslated text on any
// failure instead of aborting the run.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client posts source text to the translation endpoint and returns the
// translated text.
type Client struct {
	endpoint   string
	apiKey     string
	sourceLang string
	targetLang string
	httpClient *http.Client
}

type request struct {
	Text       string `json:"text"`
	APIKey     string `json:"apiKey"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}

type response struct {
	TranslatedText string `json:"translatedText"`
}

// NewClient creates a translation client with fixed language codes.
func NewClient(endpoint, apiKey, sourceLang, targetLang string) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		sourceLang: sourceLang,
		targetLang: targetLang,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Translate sends text to the translation endpoint. Empty input returns
// empty output without a network call. Transport failures and non-2xx
// responses are returned as errors; the caller decides whether to fall back
// to the original text.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}

	payload, err := json.Marshal(request{
		Text:       text,
		APIKey:     c.apiKey,
		SourceLang: c.sourceLang,
		TargetLang: c.targetLang,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("translation endpoint returned status %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	if out.TranslatedText == "" {
		return "", fmt.Errorf("translation endpoint returned empty text")
	}

	return out.TranslatedText, nil
}
