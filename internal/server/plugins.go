// ABOUTME: Catalog API handlers: plugin list, detail, and rendered README
// ABOUTME: Serves from the registry and README caches with shared-cache headers

package server

import (
	"errors"
	"net/http"

	"github.com/pluginbay/gallery-gateway/internal/readme"
	"github.com/pluginbay/gallery-gateway/internal/registry"
)

// Cache-Control values advertised to shared caches. The catalog changes on
// the registry cache's cadence; READMEs far less often.
const (
	catalogCacheControl = "s-maxage=300, stale-while-revalidate=600"
	readmeCacheControl  = "s-maxage=1800, stale-while-revalidate=3600"
)

// handleListPlugins handles GET /api/plugins.
func (s *Server) handleListPlugins(w http.ResponseWriter, r *http.Request) {
	records, err := s.catalog.GetAll(r.Context())
	if err != nil {
		s.logger.Error("catalog fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "plugin registry unavailable")
		return
	}

	w.Header().Set("Cache-Control", catalogCacheControl)
	writeJSON(w, http.StatusOK, records)
}

// handleGetPlugin handles GET /api/plugins/{id}.
func (s *Server) handleGetPlugin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "plugin id is required")
		return
	}

	record, found, err := s.catalog.GetByID(r.Context(), id)
	if err != nil {
		s.logger.Error("catalog fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "plugin registry unavailable")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "plugin not found")
		return
	}

	w.Header().Set("Cache-Control", catalogCacheControl)
	writeJSON(w, http.StatusOK, record)
}

// handleGetReadme handles GET /api/plugins/{id}/readme.
func (s *Server) handleGetReadme(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "plugin id is required")
		return
	}

	if doc, ok := s.readmeCache.Get(id); ok {
		w.Header().Set("Cache-Control", readmeCacheControl)
		writeJSON(w, http.StatusOK, doc)
		return
	}

	record, found, err := s.catalog.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, registry.ErrUpstream) {
			writeError(w, http.StatusBadGateway, "plugin registry unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to look up plugin")
		return
	}
	if !found || record.Repo == "" {
		writeError(w, http.StatusNotFound, "plugin has no repository")
		return
	}

	owner, repo, ok := readme.SplitRepoPath(record.Repo)
	if !ok {
		writeError(w, http.StatusBadRequest, "plugin repository path is malformed")
		return
	}

	resolved, err := s.resolver.Resolve(r.Context(), owner, repo)
	if err != nil {
		if errors.Is(err, readme.ErrNotFound) {
			writeError(w, http.StatusNotFound, "readme not found")
			return
		}
		s.logger.Error("readme resolution failed", "plugin", id, "error", err)
		writeError(w, http.StatusBadGateway, "readme source unavailable")
		return
	}

	html, err := readme.Render(resolved.Content)
	if err != nil {
		s.logger.Error("readme render failed", "plugin", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render readme")
		return
	}

	doc := readme.Document{HTML: html, AssetBaseURL: resolved.AssetBaseURL}
	s.readmeCache.Put(id, doc)

	w.Header().Set("Cache-Control", readmeCacheControl)
	writeJSON(w, http.StatusOK, doc)
}
