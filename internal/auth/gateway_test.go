// ABOUTME: Tests for the request gateway middleware
// ABOUTME: Covers path classification, redirects, API rejection, and identity propagation

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pluginbay/gallery-gateway/internal/session"
)

var gatewayTestSecret = []byte("gateway-test-secret-32-bytes-ok!")

func newTestGateway() (*Gateway, *session.Codec) {
	codec := session.NewCodec(gatewayTestSecret)
	return NewGateway(codec, NewJWTVerifier(gatewayTestSecret)), codec
}

func okHandler() (http.Handler, *session.Session) {
	captured := &session.Session{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s := IdentityFromContext(r.Context()); s != nil {
			*captured = *s
		}
		w.WriteHeader(http.StatusOK)
	}), captured
}

func TestGateway_PublicPathsPassThrough(t *testing.T) {
	gw, _ := newTestGateway()
	handler, _ := okHandler()

	paths := []string{
		"/login",
		"/healthz",
		"/robots.txt",
		"/sitemap.xml",
		"/static/app.css",
		"/assets/logo.png",
		"/favicon.ico",
		"/.well-known/security.txt",
		"/api/auth/login",
		"/api/auth/callback",
		"/login/", // trailing slash normalizes away
	}

	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		gw.Middleware(handler).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200 without auth", path, rec.Code)
		}
	}
}

func TestGateway_UnauthenticatedPageRedirects(t *testing.T) {
	gw, _ := newTestGateway()
	handler, _ := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	gw.Middleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?next=%2Fdashboard" {
		t.Errorf("Location = %q, want /login?next=%%2Fdashboard", loc)
	}
}

func TestGateway_RedirectPreservesQuery(t *testing.T) {
	gw, _ := newTestGateway()
	handler, _ := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/plugins?tag=fun", nil)
	rec := httptest.NewRecorder()
	gw.Middleware(handler).ServeHTTP(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/login?next=%2Fplugins%3Ftag%3Dfun" {
		t.Errorf("Location = %q", loc)
	}
}

func TestGateway_UnauthenticatedAPIRejected(t *testing.T) {
	gw, _ := newTestGateway()
	handler, _ := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/plugins", nil)
	rec := httptest.NewRecorder()
	gw.Middleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := rec.Body.String(); body != `{"error":"authentication required"}` {
		t.Errorf("body = %s", body)
	}
}

func TestGateway_ValidSessionPasses(t *testing.T) {
	gw, codec := newTestGateway()
	handler, captured := okHandler()

	mintRec := httptest.NewRecorder()
	mintReq := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := codec.WriteSessionCookie(mintRec, mintReq, "octocat", "The Octocat", "", time.Hour); err != nil {
		t.Fatalf("WriteSessionCookie() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range mintRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	gw.Middleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.Login != "octocat" {
		t.Errorf("identity in context = %q, want octocat", captured.Login)
	}
}

func TestGateway_TamperedCookieRedirects(t *testing.T) {
	gw, codec := newTestGateway()
	handler, _ := okHandler()

	token, _ := codec.Mint("octocat", "", "", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.SessionCookie, Value: token + "x"})
	rec := httptest.NewRecorder()
	gw.Middleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302 for tampered cookie", rec.Code)
	}
}

func TestGateway_BearerTokenAccepted(t *testing.T) {
	gw, _ := newTestGateway()
	handler, captured := okHandler()

	verifier := NewJWTVerifier(gatewayTestSecret)
	token, err := verifier.Generate("hubot", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/plugins", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	gw.Middleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with bearer token", rec.Code)
	}
	if captured.Login != "hubot" {
		t.Errorf("identity = %q, want hubot", captured.Login)
	}
}

func TestGateway_InvalidBearerTokenRejected(t *testing.T) {
	gw, _ := newTestGateway()
	handler, _ := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/plugins", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	gw.Middleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"/", "/"},
		{"//", "/"},
		{"/plugins", "/plugins"},
		{"/plugins/", "/plugins"},
		{"/plugins//", "/plugins"},
		{"//plugins///foo//", "/plugins/foo"},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
