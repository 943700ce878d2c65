// ABOUTME: Tests for robots.txt, the sitemap index, and the wallpaper endpoint
// ABOUTME: The wallpaper tests point the server at a local Bing feed stub

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobotsTxt(t *testing.T) {
	ts := newTestServer(t)

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "User-agent: *")
	assert.Contains(t, body, "Allow: /")
	assert.Contains(t, body, "Sitemap: https://plugins.example/sitemap.xml")
	assert.Contains(t, body, "Sitemap: https://plugins.example/extra-sitemap.xml")
}

func TestRobotsTxtDerivesOriginWhenUnconfigured(t *testing.T) {
	ts := newTestServer(t)
	ts.cfg.Site.BaseURL = ""
	ts.cfg.Site.ExtraSitemaps = nil

	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	req.Host = "gallery.local"
	req.Header.Set("X-Forwarded-Proto", "https")

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://gallery.local/sitemap.xml")
}

func TestSitemapIndex(t *testing.T) {
	ts := newTestServer(t)

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<loc>https://plugins.example/pages-sitemap.xml</loc>")
}

func TestWallpaper(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"images":[{"urlbase":"/th?id=OHR.Test","copyright":"Somewhere (© Someone)","title":"A Test Image"}]}`))
	}))
	defer feed.Close()

	ts := newTestServer(t)
	ts.wallpaperURL = feed.URL

	rec := ts.authedGet(t, "/api/wallpaper")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	body := decodeBody(t, rec)
	assert.Equal(t, "https://www.bing.com/th?id=OHR.Test_1920x1080.jpg", body["url"])
	variants, ok := body["variants"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://www.bing.com/th?id=OHR.Test_UHD.jpg", variants["uhd"])
	assert.Equal(t, "A Test Image", body["title"])
}

func TestWallpaperUpstreamFailure(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer feed.Close()

	ts := newTestServer(t)
	ts.wallpaperURL = feed.URL

	rec := ts.authedGet(t, "/api/wallpaper")

	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestWallpaperEmptyFeed(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"images":[]}`))
	}))
	defer feed.Close()

	ts := newTestServer(t)
	ts.wallpaperURL = feed.URL

	rec := ts.authedGet(t, "/api/wallpaper")

	require.Equal(t, http.StatusNotFound, rec.Code)
}
