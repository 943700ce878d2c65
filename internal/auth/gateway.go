// ABOUTME: Request gateway middleware classifying public vs protected paths
// ABOUTME: Redirects unauthenticated browsers to login and rejects unauthenticated API calls

package auth

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pluginbay/gallery-gateway/internal/session"
)

// Paths served without authentication.
var (
	publicPaths = map[string]struct{}{
		"/login":       {},
		"/healthz":     {},
		"/robots.txt":  {},
		"/sitemap.xml": {},
	}

	publicPrefixes = []string{
		"/static/",
		"/assets/",
		"/favicon",
		"/.well-known/",
		"/api/auth/",
	}
)

// Gateway is the per-request authentication middleware. Every request passes
// through here before any handler runs; verification is stateless, so clearing
// the cookie or rotating the secret revokes access immediately.
type Gateway struct {
	codec    *session.Codec
	verifier TokenVerifier
	logger   *slog.Logger
}

// NewGateway creates the middleware. verifier may be nil to disable bearer
// token authentication.
func NewGateway(codec *session.Codec, verifier TokenVerifier) *Gateway {
	return &Gateway{
		codec:    codec,
		verifier: verifier,
		logger:   slog.Default().With("component", "gateway"),
	}
}

// Middleware wraps next with the public/protected classification and session
// verification described above.
func (g *Gateway) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := NormalizePath(r.URL.Path)

		if isPublicPath(path) {
			next.ServeHTTP(w, r)
			return
		}

		if s := g.authenticate(r); s != nil {
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), s)))
			return
		}

		if strings.HasPrefix(path, "/api/") {
			// Programmatic callers get a machine-readable rejection, never a redirect.
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"authentication required"}`))
			return
		}

		target := path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, "/login?next="+url.QueryEscape(target), http.StatusFound)
	})
}

// authenticate resolves the request identity from the session cookie, falling
// back to a bearer token when one is presented.
func (g *Gateway) authenticate(r *http.Request) *session.Session {
	if s := g.codec.ReadSessionCookie(r); s != nil {
		return s
	}

	if g.verifier == nil {
		return nil
	}
	authHeader := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return nil
	}
	login, err := g.verifier.Verify(token)
	if err != nil {
		g.logger.Debug("bearer token rejected", "error", err)
		return nil
	}
	return &session.Session{Login: login}
}

// NormalizePath collapses duplicate slashes and strips the trailing slash
// (except for the root), so "/plugins//" and "/plugins" classify identically.
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}

	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for _, c := range p {
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(c)
	}

	normalized := b.String()
	if len(normalized) > 1 {
		normalized = strings.TrimRight(normalized, "/")
		if normalized == "" {
			normalized = "/"
		}
	}
	return normalized
}

func isPublicPath(path string) bool {
	if _, ok := publicPaths[path]; ok {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
		// Prefix entries also cover the exact path without the trailing slash,
		// which NormalizePath strips ("/api/auth/login" stays, "/api/auth" matches).
		if path == strings.TrimSuffix(prefix, "/") {
			return true
		}
	}
	return false
}
