// Package config handles configuration loading for gallery-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults. Validation is strict:
// a missing OAuth credential, a short cookie secret, or an empty allowlist
// refuses to start the server rather than serving with broken auth.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  cookie_secret: "${GALLERY_COOKIE_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	registry:
//	  cache_ttl: "10m"
//	  fetch_timeout: "10s"
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Authentication:
//
//	auth:
//	  github_client_id: "${GITHUB_CLIENT_ID}"
//	  github_client_secret: "${GITHUB_CLIENT_SECRET}"
//	  github_callback_url: "https://plugins.example.com/api/auth/callback"
//	  cookie_secret: "${GALLERY_COOKIE_SECRET}"   # >= 32 bytes
//	  access_mode: "allowlist"                    # allowlist, denylist
//	  allowed_users: ["octocat"]
//	  session_lifetime: "168h"
//
// Upstream registry:
//
//	registry:
//	  url: "https://registry.example.com/plugins"
//	  cache_ttl: "10m"
//
// Analytics (optional; endpoints return 503 when disabled):
//
//	analytics:
//	  database_path: "/var/lib/gallery/analytics.db"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
