// ABOUTME: Signed session token minting and verification using HMAC-SHA256
// ABOUTME: Tokens are client-held; no server-side session table exists

package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
)

// Session is the authenticated identity carried by a verified token.
// Immutable once minted; the only copy lives in the client's cookie.
type Session struct {
	Login     string `json:"login"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	ExpiresAt int64  `json:"exp"`
}

// Codec signs and verifies session tokens with a symmetric secret.
// Token format: base64url(payload) "." base64url(HMAC-SHA256(base64url(payload))).
type Codec struct {
	secret []byte
	logger *slog.Logger

	// now is injectable for expiry tests.
	now func() time.Time
}

// NewCodec creates a codec signing with the given secret.
func NewCodec(secret []byte) *Codec {
	return &Codec{
		secret: secret,
		logger: slog.Default().With("component", "session"),
		now:    time.Now,
	}
}

// Mint serializes a session expiring ttl from now and signs it.
func (c *Codec) Mint(login, name, avatarURL string, ttl time.Duration) (string, error) {
	s := Session{
		Login:     login,
		Name:      name,
		AvatarURL: avatarURL,
		ExpiresAt: c.now().Add(ttl).Unix(),
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + base64.RawURLEncoding.EncodeToString(c.sign(encoded)), nil
}

// Verify checks the token's signature and expiry and returns the decoded
// session, or nil for any failure. The input is attacker-controlled: every
// parse or signature problem degrades to "no session", never a panic.
func (c *Codec) Verify(token string) *Session {
	if token == "" {
		return nil
	}

	payloadPart, signaturePart, ok := strings.Cut(token, ".")
	if !ok || payloadPart == "" || signaturePart == "" {
		return nil
	}

	provided, err := base64.RawURLEncoding.DecodeString(signaturePart)
	if err != nil {
		return nil
	}

	expected := c.sign(payloadPart)
	if len(expected) != len(provided) {
		return nil
	}
	// hmac.Equal is constant-time; a short-circuiting compare would leak
	// the first differing byte through timing.
	if !hmac.Equal(expected, provided) {
		return nil
	}

	payload, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		c.logger.Warn("session payload not decodable despite valid signature")
		return nil
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		c.logger.Warn("session payload not parseable despite valid signature")
		return nil
	}

	if s.ExpiresAt < c.now().Unix() {
		return nil
	}

	return &s
}

func (c *Codec) sign(encodedPayload string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encodedPayload))
	return mac.Sum(nil)
}
