// ABOUTME: Package server assembles the HTTP API behind the auth gateway
// ABOUTME: Routes cover the plugin catalog, OAuth flow, analytics, and site extras

// Package server wires the gateway middleware, catalog cache, README
// resolver, and analytics store into a single http.Handler.
//
// Every route is registered on a ServeMux with method patterns and then
// wrapped by the auth gateway: API routes answer 401 JSON when
// unauthenticated, page routes redirect to /login. The /api/auth/ prefix is
// public so the login flow itself never bounces.
package server
