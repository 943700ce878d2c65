// ABOUTME: HTTP server assembly: dependencies, routes, and response helpers
// ABOUTME: All handlers sit behind the auth gateway middleware

package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/pluginbay/gallery-gateway/internal/analytics"
	"github.com/pluginbay/gallery-gateway/internal/auth"
	"github.com/pluginbay/gallery-gateway/internal/config"
	"github.com/pluginbay/gallery-gateway/internal/github"
	"github.com/pluginbay/gallery-gateway/internal/readme"
	"github.com/pluginbay/gallery-gateway/internal/registry"
	"github.com/pluginbay/gallery-gateway/internal/session"
)

// identityProvider is the GitHub-facing surface of the login flow.
// *github.Client satisfies it; tests substitute a fake.
type identityProvider interface {
	AuthorizeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchUser(ctx context.Context, token *oauth2.Token) (*github.User, error)
}

// readmeResolver locates raw README content for an owner/repo pair.
type readmeResolver interface {
	Resolve(ctx context.Context, owner, repo string) (*readme.Resolved, error)
}

// Server holds the wired dependencies behind the HTTP surface. Caches and
// stores are injected rather than reached through globals, so tests can run
// against fakes and fake clocks.
type Server struct {
	cfg      *config.Config
	codec    *session.Codec
	gateway  *auth.Gateway
	policy   *auth.Policy
	tokens   *auth.JWTVerifier
	provider identityProvider

	catalog     *registry.Cache
	resolver    readmeResolver
	readmeCache *readme.Cache

	// analytics is nil when no database path is configured.
	analytics analytics.Store

	// wallpaperURL is the Bing image archive endpoint, overridable in tests.
	wallpaperURL string

	logger *slog.Logger
}

// New assembles a server from its dependencies. analyticsStore may be nil.
func New(
	cfg *config.Config,
	codec *session.Codec,
	policy *auth.Policy,
	provider identityProvider,
	catalog *registry.Cache,
	resolver readmeResolver,
	readmeCache *readme.Cache,
	analyticsStore analytics.Store,
) *Server {
	tokens := auth.NewJWTVerifier([]byte(cfg.Auth.CookieSecret))
	return &Server{
		cfg:          cfg,
		codec:        codec,
		gateway:      auth.NewGateway(codec, tokens),
		policy:       policy,
		tokens:       tokens,
		provider:     provider,
		catalog:      catalog,
		resolver:     resolver,
		readmeCache:  readmeCache,
		analytics:    analyticsStore,
		wallpaperURL: bingEndpoint,
		logger:       slog.Default().With("component", "server"),
	}
}

// Handler returns the complete HTTP handler: all routes behind the gateway.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Catalog
	mux.HandleFunc("GET /api/plugins", s.handleListPlugins)
	mux.HandleFunc("GET /api/plugins/{id}", s.handleGetPlugin)
	mux.HandleFunc("GET /api/plugins/{id}/readme", s.handleGetReadme)

	// Auth flow (public by path prefix; see internal/auth)
	mux.HandleFunc("GET /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/callback", s.handleCallback)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/user", s.handleUser)
	mux.HandleFunc("POST /api/auth/token", s.handleToken)

	// Analytics
	mux.HandleFunc("POST /api/analytics/events", s.handleAnalyticsEvents)
	mux.HandleFunc("GET /api/analytics/trending", s.handleAnalyticsTrending)

	// Extras
	mux.HandleFunc("GET /api/wallpaper", s.handleWallpaper)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /robots.txt", s.handleRobots)
	mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)

	return s.gateway.Middleware(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

// writeError emits the single error-body shape used across the API.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
