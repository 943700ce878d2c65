// ABOUTME: Analytics store interface consumed by the HTTP handlers
// ABOUTME: Append/query only; aggregation details stay behind the interface

package analytics

import "context"

// Store is the append/query service the gateway records interactions into.
// Handlers depend on this interface, not on a concrete backend.
type Store interface {
	// Append records one sanitized event.
	Append(ctx context.Context, event *Event) error

	// Trending aggregates interaction events per plugin over the trailing
	// periodDays, returning at most limit entries ordered by total count.
	Trending(ctx context.Context, periodDays, limit int) ([]TrendingEntry, error)

	// Close releases backend resources.
	Close() error
}
