// ABOUTME: Identity propagation through request contexts
// ABOUTME: Provides WithIdentity/IdentityFromContext for handlers downstream of the gateway

package auth

import (
	"context"

	"github.com/pluginbay/gallery-gateway/internal/session"
)

// identityContextKey is the key type for storing the identity in context.Context.
type identityContextKey struct{}

// WithIdentity returns a new context with the verified session attached.
func WithIdentity(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, identityContextKey{}, s)
}

// IdentityFromContext retrieves the verified session from the context,
// returning nil if the request was not authenticated.
func IdentityFromContext(ctx context.Context) *session.Session {
	val := ctx.Value(identityContextKey{})
	if val == nil {
		return nil
	}
	s, ok := val.(*session.Session)
	if !ok {
		return nil
	}
	return s
}
