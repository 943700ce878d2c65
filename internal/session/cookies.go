// ABOUTME: Cookie read/write helpers for session and OAuth state artifacts
// ABOUTME: All cookies are HttpOnly, SameSite=Lax, Secure behind HTTPS

package session

import (
	"net/http"
	"strings"
	"time"
)

// Cookie names used by the auth flow.
const (
	SessionCookie = "gallery_session"
	StateCookie   = "gallery_oauth_state"
	ReturnCookie  = "gallery_oauth_return"
)

// WriteSessionCookie mints a token for the session fields and sets it on the response.
func (c *Codec) WriteSessionCookie(w http.ResponseWriter, r *http.Request, login, name, avatarURL string, ttl time.Duration) error {
	token, err := c.Mint(login, name, avatarURL, ttl)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
	return nil
}

// ReadSessionCookie verifies the session cookie on the request, returning nil
// when the cookie is absent, forged, malformed, or expired.
func (c *Codec) ReadSessionCookie(r *http.Request) *Session {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	return c.Verify(cookie.Value)
}

// ClearSessionCookie deletes the session cookie. Verification is stateless, so
// this is the entire logout: the next request simply has no valid token.
func ClearSessionCookie(w http.ResponseWriter) {
	deleteCookie(w, SessionCookie)
}

func deleteCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// isSecureRequest reports whether the client connection is HTTPS, honoring
// X-Forwarded-Proto for deployments behind a TLS-terminating proxy.
func isSecureRequest(r *http.Request) bool {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return strings.Contains(proto, "https")
	}
	return r.TLS != nil
}
