// Package session implements the stateless, cookie-held session mechanism
// for gallery-gateway.
//
// # Tokens
//
// A session token is base64url(JSON payload) + "." + base64url(signature),
// where the signature is HMAC-SHA256 over the encoded payload using the
// configured cookie secret. The payload carries the GitHub login, optional
// display name and avatar, and an absolute expiry in epoch seconds.
//
// There is no server-side session store: the token itself is the session.
// Rotating the secret invalidates every outstanding token at once.
//
// # Verification
//
// Verify fails closed. Missing parts, undecodable signatures, signature
// mismatches (checked in constant time), unparseable payloads, and expired
// sessions all yield nil. Attacker-controlled input can never panic the
// gateway.
//
// # OAuth state
//
// IssueState/ConsumeState manage the one-time CSRF state token and the
// post-login return path as a pair of short-lived cookies. Consumption
// deletes both cookies regardless of whether the presented state matches,
// so a state value binds exactly one login attempt to exactly one callback.
package session
