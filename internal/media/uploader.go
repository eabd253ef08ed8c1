// Package media re-hosts remote article images. The pipeline tries a direct
// fetch-and-store first, then a fetch-decode-reencode path for origins that
// reject the plain fetch, and finally falls back to a fixed placeholder URL.
// Image resolution never blocks article creation.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"

	"newsbridge/pkg/textutil"
)

const (
	fetchTimeout = 30 * time.Second
	maxImageSize = 16 << 20

	// Some image CDNs reject unknown clients; the fallback path retries
	// with a browser identity before re-encoding.
	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Config carries the uploader's construction-time settings.
type Config struct {
	Store          ObjectStore
	KeyPrefix      string
	PlaceholderURL string
	ProxyURL       string // optional image-proxy endpoint; empty means direct fetch
}

// Uploader downloads remote images and re-hosts them in the object store.
type Uploader struct {
	store          ObjectStore
	keyPrefix      string
	placeholderURL string
	proxyURL       string
	client         *http.Client
	now            func() time.Time
}

// NewUploader creates an image uploader.
func NewUploader(cfg Config) *Uploader {
	return &Uploader{
		store:          cfg.Store,
		keyPrefix:      cfg.KeyPrefix,
		placeholderURL: cfg.PlaceholderURL,
		proxyURL:       cfg.ProxyURL,
		client:         &http.Client{Timeout: fetchTimeout},
		now:            time.Now,
	}
}

// Upload re-hosts the image at imageURL and returns the resulting public
// URL. It never fails: when both the direct path and the re-encode path are
// exhausted it returns the placeholder URL.
func (u *Uploader) Upload(ctx context.Context, imageURL, title string) string {
	publicURL, err := u.uploadDirect(ctx, imageURL, title)
	if err == nil {
		return publicURL
	}
	log.Warn().Err(err).Str("image_url", imageURL).Msg("Direct image upload failed, trying re-encode path")

	publicURL, err = u.uploadReencoded(ctx, imageURL, title)
	if err == nil {
		return publicURL
	}
	log.Warn().Err(err).Str("image_url", imageURL).Msg("Image re-encode fallback failed, using placeholder")

	return u.placeholderURL
}

// uploadDirect fetches the raw bytes (optionally through the image proxy)
// and stores them as-is.
func (u *Uploader) uploadDirect(ctx context.Context, imageURL, title string) (string, error) {
	fetchURL := imageURL
	if u.proxyURL != "" {
		fetchURL = u.proxyURL + "?url=" + url.QueryEscape(imageURL)
	}

	data, contentType, err := u.fetch(ctx, fetchURL, defaultUserAgent)
	if err != nil {
		return "", err
	}

	key := u.objectKey(title, extensionFor(contentType))
	return u.store.Put(ctx, key, contentType, data)
}

// uploadReencoded refetches with a browser identity, decodes the image and
// re-encodes it as PNG before storing. This recovers images whose origin
// rejects the plain fetch or serves a format worth normalizing.
func (u *Uploader) uploadReencoded(ctx context.Context, imageURL, title string) (string, error) {
	data, _, err := u.fetch(ctx, imageURL, browserUserAgent)
	if err != nil {
		return "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to re-encode image as png: %w", err)
	}

	log.Debug().
		Str("image_url", imageURL).
		Str("source_format", format).
		Int("bytes", buf.Len()).
		Msg("Re-encoded image")

	key := u.objectKey(title, ".png")
	return u.store.Put(ctx, key, "image/png", buf.Bytes())
}

func (u *Uploader) fetch(ctx context.Context, fetchURL, userAgent string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build image request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("image fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("image fetch returned empty body")
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	return data, contentType, nil
}

// objectKey derives a storage key from the owning article's title and the
// upload time. Titles that slugify to nothing get a random key instead.
func (u *Uploader) objectKey(title, ext string) string {
	slug := textutil.Slugify(title)
	if slug == "" {
		slug = uuid.NewString()
	}
	return fmt.Sprintf("%s/%s-%d%s", u.keyPrefix, slug, u.now().Unix(), ext)
}

const defaultUserAgent = "newsbridge/1.0"

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".jpg"
	}
}
