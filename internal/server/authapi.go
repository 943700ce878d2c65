// ABOUTME: Login flow handlers: authorize redirect, OAuth callback, logout, user, token
// ABOUTME: State mismatch, exchange failure, and policy denial never mint a session

package server

import (
	"net/http"
	"time"

	"github.com/pluginbay/gallery-gateway/internal/session"
)

// handleLogin handles GET /api/auth/login. It issues the one-time state,
// remembers where to return the browser afterwards, and redirects to the
// provider's authorize endpoint.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	returnPath := session.SanitizeReturnPath(r.URL.Query().Get("next"))

	state, err := session.IssueState(w, r, returnPath, s.cfg.Auth.StateLifetime)
	if err != nil {
		s.logger.Error("failed to issue oauth state", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start login")
		return
	}

	http.Redirect(w, r, s.provider.AuthorizeURL(state), http.StatusFound)
}

// handleCallback handles GET /api/auth/callback: state check, code exchange,
// profile fetch, policy decision, session mint. Every failure redirects to
// the login view with an error marker; no partial session is ever created.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")
	presentedState := query.Get("state")

	// Consumption is unconditional: even on mismatch the stored state is gone.
	storedState, returnPath := session.ConsumeState(w, r)

	if code == "" || presentedState == "" || storedState == "" || presentedState != storedState {
		s.logger.Warn("oauth callback state mismatch")
		http.Redirect(w, r, "/login?error=state", http.StatusFound)
		return
	}

	token, err := s.provider.Exchange(r.Context(), code)
	if err != nil {
		s.logger.Error("oauth code exchange failed", "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusFound)
		return
	}

	user, err := s.provider.FetchUser(r.Context(), token)
	if err != nil {
		s.logger.Error("oauth profile fetch failed", "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusFound)
		return
	}

	if !s.policy.Decide(user.Login) {
		s.logger.Warn("login denied by access policy", "login", user.Login)
		session.ClearSessionCookie(w)
		http.Redirect(w, r, "/login?error=unauthorized", http.StatusFound)
		return
	}

	if err := s.codec.WriteSessionCookie(w, r, user.Login, user.Name, user.AvatarURL, s.cfg.Auth.SessionLifetime); err != nil {
		s.logger.Error("failed to mint session", "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusFound)
		return
	}

	s.logger.Info("user logged in", "login", user.Login)
	http.Redirect(w, r, returnPath, http.StatusFound)
}

// handleLogout handles POST /api/auth/logout. Deleting the cookie is the
// entire revocation; there is no server-side state to clean up.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// userResponse is the JSON response for GET /api/auth/user.
type userResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *session.Session `json:"user"`
}

// handleUser handles GET /api/auth/user. The path is public, so the session
// is read directly; an anonymous caller gets authenticated=false, not a 401.
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	sess := s.codec.ReadSessionCookie(r)
	if sess == nil {
		writeJSON(w, http.StatusOK, userResponse{Authenticated: false})
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Authenticated: true, User: sess})
}

// apiTokenLifetime bounds bearer tokens handed to programmatic clients.
const apiTokenLifetime = 24 * time.Hour

// handleToken handles POST /api/auth/token, trading a valid browser session
// for a bearer token usable from CLIs and CI.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	sess := s.codec.ReadSessionCookie(r)
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	token, err := s.tokens.Generate(sess.Login, apiTokenLifetime)
	if err != nil {
		s.logger.Error("failed to generate api token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_in": int(apiTokenLifetime.Seconds()),
	})
}
