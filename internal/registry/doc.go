// Package registry fetches and caches the third-party plugin catalog.
//
// The upstream registry serves a JSON map of machine-name to plugin details.
// The client transforms it into a stable []Record, injecting the machine name
// as the record ID, defaulting display names, and normalizing tags (a bare
// string becomes a one-element array).
//
// The cache holds a single catalog entry with a short TTL. Entries are
// immutable and replaced whole, so no locks are held across network calls and
// concurrent readers never see partial state. An expired entry is refreshed
// by the next request through a single-flight guard; a failed refresh is
// reported to the caller instead of masking the outage with stale data.
package registry
