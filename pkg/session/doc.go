// Package session holds the client-side authentication state: the persisted
// bearer token, the identity provider that issued the current session, and
// the single service through which both are allowed to change.
package session
