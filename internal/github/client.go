// ABOUTME: GitHub OAuth client for the authorization-code flow and profile fetch
// ABOUTME: Wraps golang.org/x/oauth2 with the github endpoint

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

// User is the identity profile fetched after a successful token exchange.
type User struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Client drives the GitHub side of the login flow: building the authorize
// URL, exchanging the callback code, and fetching the user profile.
type Client struct {
	oauth   *oauth2.Config
	apiBase string
	timeout time.Duration
}

// NewClient creates a GitHub OAuth client. The scope is read:user only; the
// gateway never needs repository access on the user's behalf.
func NewClient(clientID, clientSecret, callbackURL string, timeout time.Duration) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user"},
			Endpoint:     githuboauth.Endpoint,
		},
		apiBase: "https://api.github.com",
		timeout: timeout,
	}
}

// AuthorizeURL returns the provider authorize URL carrying the CSRF state.
func (c *Client) AuthorizeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades the callback code for an access token.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return token, nil
}

// FetchUser retrieves the authenticated user's profile with the given token.
func (c *Client) FetchUser(ctx context.Context, token *oauth2.Token) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("building profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetching profile: unexpected status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	if user.Login == "" {
		return nil, fmt.Errorf("profile response missing login")
	}

	return &user, nil
}
