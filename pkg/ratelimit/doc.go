// Package ratelimit provides per-IP token-bucket rate limiting middleware
// for the portal's credential login endpoint, with automatic stale-entry
// cleanup.
package ratelimit
