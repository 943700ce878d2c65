// Package github talks to GitHub as the identity provider.
//
// The client covers exactly the three steps the login flow needs: building
// the authorize URL with the CSRF state, exchanging the callback code for an
// access token, and fetching the user profile (login, display name, avatar).
// Both network calls are timeout-bound.
package github
