// ABOUTME: One-time CSRF state tokens binding an OAuth login attempt to its callback
// ABOUTME: State and return-path cookies are short-lived and deleted on consumption

package session

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

// stateTokenBytes is the entropy of a state token (256 bits).
const stateTokenBytes = 32

// NewStateToken generates a cryptographically random opaque state value.
func NewStateToken() (string, error) {
	b := make([]byte, stateTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// IssueState persists a freshly generated state token and the sanitized return
// path as short-lived cookies, returning the state for the authorize redirect.
func IssueState(w http.ResponseWriter, r *http.Request, returnPath string, ttl time.Duration) (string, error) {
	state, err := NewStateToken()
	if err != nil {
		return "", err
	}

	maxAge := int(ttl.Seconds())
	secure := isSecureRequest(r)

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     ReturnCookie,
		Value:    SanitizeReturnPath(returnPath),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})

	return state, nil
}

// ConsumeState reads the stored state and return path and unconditionally
// deletes both cookies, so a state value can never be replayed. The caller is
// responsible for comparing the presented state against the returned one.
func ConsumeState(w http.ResponseWriter, r *http.Request) (state, returnPath string) {
	if cookie, err := r.Cookie(StateCookie); err == nil {
		state = cookie.Value
	}
	returnPath = "/"
	if cookie, err := r.Cookie(ReturnCookie); err == nil {
		returnPath = SanitizeReturnPath(cookie.Value)
	}

	deleteCookie(w, StateCookie)
	deleteCookie(w, ReturnCookie)

	return state, returnPath
}

// SanitizeReturnPath restricts the post-login redirect target to same-origin
// relative paths. Anything else ("https://evil.example", "//evil.example",
// "javascript:...") collapses to "/" to prevent open redirects.
func SanitizeReturnPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return "/"
	}
	return p
}
