// Package apiresponses provides standardized JSON response helpers for the
// portal's API endpoints so error payloads stay uniform across handlers.
package apiresponses
