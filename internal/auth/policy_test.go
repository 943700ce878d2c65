// ABOUTME: Tests for the access policy allow/deny decision
// ABOUTME: Covers case-insensitivity, trimming, and both list modes

package auth

import "testing"

func TestPolicy_Allowlist(t *testing.T) {
	policy := NewPolicy(ModeAllowlist, []string{"Octocat", " hubot "})

	tests := []struct {
		identity string
		want     bool
	}{
		{"octocat", true},
		{"Octocat", true},
		{"OCTOCAT", true},
		{"  octocat  ", true},
		{"hubot", true},
		{"mallory", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		if got := policy.Decide(tt.identity); got != tt.want {
			t.Errorf("Decide(%q) = %v, want %v", tt.identity, got, tt.want)
		}
	}
}

func TestPolicy_Denylist(t *testing.T) {
	policy := NewPolicy(ModeDenylist, []string{"mallory"})

	tests := []struct {
		identity string
		want     bool
	}{
		{"octocat", true},
		{"anyone-else", true},
		{"mallory", false},
		{"MALLORY", false},
		{" mallory ", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := policy.Decide(tt.identity); got != tt.want {
			t.Errorf("Decide(%q) = %v, want %v", tt.identity, got, tt.want)
		}
	}
}

func TestPolicy_CaseInsensitiveEquivalence(t *testing.T) {
	policy := NewPolicy(ModeAllowlist, []string{"alice"})

	if policy.Decide("Alice") != policy.Decide("alice") {
		t.Error("Decide is not case-insensitive")
	}
}

func TestPolicy_Pure(t *testing.T) {
	policy := NewPolicy(ModeAllowlist, []string{"alice"})

	// Repeated calls with identical input must yield identical results.
	for i := 0; i < 3; i++ {
		if !policy.Decide("alice") {
			t.Fatal("Decide changed its answer across calls")
		}
		if policy.Decide("bob") {
			t.Fatal("Decide changed its answer across calls")
		}
	}
}
