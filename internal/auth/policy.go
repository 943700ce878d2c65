// ABOUTME: Access policy deciding whether a verified identity may use the system
// ABOUTME: Pure allowlist/denylist check over normalized GitHub logins

package auth

import "strings"

// Mode selects which user list the policy consults.
type Mode string

const (
	// ModeAllowlist admits only identities present in the allowed set.
	ModeAllowlist Mode = "allowlist"
	// ModeDenylist admits every identity except those in the denied set.
	ModeDenylist Mode = "denylist"
)

// Policy decides access for verified identities. It is a pure value with no
// side effects; comparisons are case-insensitive and whitespace-trimmed.
type Policy struct {
	mode  Mode
	users map[string]struct{}
}

// NewPolicy builds a policy from the configured mode and user list. The list
// is the allowed set in allowlist mode and the denied set in denylist mode.
func NewPolicy(mode Mode, users []string) *Policy {
	set := make(map[string]struct{}, len(users))
	for _, u := range users {
		if normalized := normalizeIdentity(u); normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return &Policy{mode: mode, users: set}
}

// Decide reports whether the identity may access the system.
func (p *Policy) Decide(identity string) bool {
	normalized := normalizeIdentity(identity)
	if normalized == "" {
		return false
	}

	_, listed := p.users[normalized]
	switch p.mode {
	case ModeDenylist:
		return !listed
	default:
		return listed
	}
}

func normalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}
