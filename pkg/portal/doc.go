// Package portal implements the browser-facing authentication portal: the
// login and profile views, the OAuth2 redirect callback, and the route guard
// that gates the protected dashboard subtree on session state.
package portal
