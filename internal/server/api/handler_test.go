package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsbridge/internal/models"
)

type stubRepo struct {
	articles []models.Article
	err      error
}

func (r *stubRepo) FetchArticles(_ context.Context, limit int, _ *time.Time, _ *time.Time, _ *int64) ([]models.Article, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.articles) > limit {
		return r.articles[:limit], nil
	}
	return r.articles, nil
}

func (r *stubRepo) FetchArticleBySlug(_ context.Context, slug string) (*models.Article, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.articles {
		if r.articles[i].Slug == slug {
			return &r.articles[i], nil
		}
	}
	return nil, nil
}

func makeArticles(n int) []models.Article {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	articles := make([]models.Article, n)
	for i := range articles {
		articles[i] = models.Article{
			ID:          int64(i + 1),
			Title:       fmt.Sprintf("Title %d", i+1),
			Slug:        fmt.Sprintf("title-%d", i+1),
			PublishDate: "2026-08-01",
			Author:      "rss-import",
			Published:   true,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
	}
	return articles
}

func TestGetArticlesFirstPageWithoutParams(t *testing.T) {
	h := NewArticlesHandler(&stubRepo{articles: makeArticles(3)})

	req := httptest.NewRequest(http.MethodGet, "/v1/articles", nil)
	rec := httptest.NewRecorder()
	h.GetArticles(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Articles, 3)
	assert.Nil(t, resp.NextCursor)
}

func TestGetArticlesReturnsNextCursorWhenMore(t *testing.T) {
	h := NewArticlesHandler(&stubRepo{articles: makeArticles(5)})

	req := httptest.NewRequest(http.MethodGet, "/v1/articles?limit=4", nil)
	rec := httptest.NewRecorder()
	h.GetArticles(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Articles, 4)
	require.NotNil(t, resp.NextCursor)
	assert.NotEmpty(t, *resp.NextCursor)
}

func TestGetArticlesRejectsBadLimit(t *testing.T) {
	h := NewArticlesHandler(&stubRepo{})

	for _, limit := range []string{"0", "-1", "9999", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/articles?limit="+limit, nil)
		rec := httptest.NewRecorder()
		h.GetArticles(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestGetArticlesRejectsBadCursor(t *testing.T) {
	h := NewArticlesHandler(&stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/articles?cursor=garbage", nil)
	rec := httptest.NewRecorder()
	h.GetArticles(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetArticleBySlug(t *testing.T) {
	h := NewArticlesHandler(&stubRepo{articles: makeArticles(2)})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/articles/{slug}", h.GetArticleBySlug)

	req := httptest.NewRequest(http.MethodGet, "/v1/articles/title-2", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Article
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Title 2", got.Title)
}

func TestGetArticleBySlugNotFound(t *testing.T) {
	h := NewArticlesHandler(&stubRepo{articles: makeArticles(1)})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/articles/{slug}", h.GetArticleBySlug)

	req := httptest.NewRequest(http.MethodGet, "/v1/articles/missing", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
