// Package analytics records plugin interaction events and answers trending
// queries over them.
//
// The gateway consumes the Store interface as an opaque append/query service;
// the SQLite implementation is the default backend. Events are sanitized
// before storage: the event type must be one of the known interaction types,
// tags are capped at 16, and metadata is capped at 12 scalar entries with
// keys of at most 48 characters.
//
// Analytics is optional. When no database path is configured, the server
// wires no store and the analytics endpoints answer 503.
package analytics
