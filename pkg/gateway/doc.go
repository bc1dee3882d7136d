// Package gateway is the typed adapter for the backend API gateway. It owns
// the request/response contract (login, user info) and attaches the stored
// bearer token to protected calls, but never mutates the token store itself.
package gateway
