// ABOUTME: SEO endpoints: robots.txt and the sitemap index
// ABOUTME: The site URL comes from config, falling back to the request origin

package server

import (
	"fmt"
	"net/http"
	"strings"
)

// siteURL resolves the external base URL for generated links.
func (s *Server) siteURL(r *http.Request) string {
	if s.cfg.Site.BaseURL != "" {
		return strings.TrimRight(s.cfg.Site.BaseURL, "/")
	}

	scheme := "http"
	if r.TLS != nil || strings.Contains(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// handleRobots handles GET /robots.txt.
func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	siteURL := s.siteURL(r)

	lines := []string{
		"User-agent: *",
		"Allow: /",
		"",
		"Sitemap: " + siteURL + "/sitemap.xml",
	}
	for _, extra := range s.cfg.Site.ExtraSitemaps {
		lines = append(lines, "Sitemap: "+extra)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, strings.Join(lines, "\n"))
}

// handleSitemap handles GET /sitemap.xml with a sitemap index pointing at the
// page sitemap generated by the frontend build.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	siteURL := s.siteURL(r)

	xml := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap>
    <loc>` + siteURL + `/pages-sitemap.xml</loc>
  </sitemap>
</sitemapindex>`

	w.Header().Set("Content-Type", "application/xml")
	fmt.Fprint(w, xml)
}
