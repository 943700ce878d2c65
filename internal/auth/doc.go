// Package auth provides authentication and authorization for gallery-gateway.
//
// # Request Gateway
//
// Every inbound request passes through Gateway.Middleware. Paths in the public
// set (login page, health check, SEO endpoints, static asset prefixes, and the
// auth API itself) pass through untouched. Everything else requires a valid
// session: page requests without one are redirected to /login with the
// original path carried in the next parameter, API requests receive a 401.
//
// Verification is stateless and re-executes on every request. There is no
// session table, so revocation is immediate once the cookie is cleared or the
// signing secret changes.
//
// # Access Policy
//
// Policy is a pure allow/deny decision over normalized (lower-cased, trimmed)
// GitHub logins. Exactly one mode is active:
//
//   - allowlist: the identity must appear in the configured set (the set must
//     be non-empty; config validation enforces this at startup)
//   - denylist: the identity is rejected only if present in the deny set
//
// # Bearer Tokens
//
// Programmatic clients can trade their browser session for an HS256 JWT via
// POST /api/auth/token and present it as "Authorization: Bearer <token>".
// The gateway accepts either credential on protected API routes.
package auth
