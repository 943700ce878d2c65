// ABOUTME: Daily wallpaper endpoint backed by the Bing image archive
// ABOUTME: Picks a random recent image and expands the size variants

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"
)

const bingEndpoint = "https://www.bing.com/HPImageArchive.aspx"

const wallpaperFetchTimeout = 5 * time.Second

// bingFeed mirrors the fields we use from the archive response.
type bingFeed struct {
	Images []struct {
		URL       string `json:"url"`
		URLBase   string `json:"urlbase"`
		Copyright string `json:"copyright"`
		Title     string `json:"title"`
	} `json:"images"`
}

type wallpaperResponse struct {
	URL       string            `json:"url"`
	Title     string            `json:"title,omitempty"`
	Copyright string            `json:"copyright,omitempty"`
	Variants  map[string]string `json:"variants"`
}

// handleWallpaper handles GET /api/wallpaper.
func (s *Server) handleWallpaper(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), wallpaperFetchTimeout)
	defer cancel()

	feedURL := s.wallpaperURL + "?format=js&idx=0&n=8&mkt=en-US"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.logger.Warn("wallpaper feed unreachable", "error", err)
		writeError(w, http.StatusBadGateway, "wallpaper source unavailable")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("wallpaper feed error", "status", resp.StatusCode)
		writeError(w, http.StatusBadGateway, "wallpaper source unavailable")
		return
	}

	var feed bingFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		writeError(w, http.StatusBadGateway, "wallpaper source unavailable")
		return
	}
	if len(feed.Images) == 0 {
		writeError(w, http.StatusNotFound, "no wallpaper available")
		return
	}

	img := feed.Images[rand.IntN(len(feed.Images))]
	base := "https://www.bing.com" + img.URLBase
	out := wallpaperResponse{
		URL:       base + "_1920x1080.jpg",
		Title:     img.Title,
		Copyright: img.Copyright,
		Variants: map[string]string{
			"1920x1080": base + "_1920x1080.jpg",
			"uhd":       base + "_UHD.jpg",
			"1366x768":  base + "_1366x768.jpg",
			"1080x1920": base + "_1080x1920.jpg",
		},
	}
	if img.URLBase == "" && img.URL != "" {
		out.URL = fmt.Sprintf("https://www.bing.com%s", img.URL)
		out.Variants = map[string]string{"default": out.URL}
	}

	// Fresh-picked per request, so never cacheable.
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, out)
}
