package session

// FailureKind classifies auth-relevant failures so they can be logged and
// counted distinctly even when the user-facing message is the same generic
// one.
type FailureKind string

const (
	// FailureCredentialsInvalid is a rejected username/password login.
	FailureCredentialsInvalid FailureKind = "credentials_invalid"
	// FailureOAuthDenied is a redirect callback carrying an error parameter.
	FailureOAuthDenied FailureKind = "oauth_denied"
	// FailureOAuthMalformed is a redirect callback with neither token nor
	// error parameter.
	FailureOAuthMalformed FailureKind = "oauth_malformed_callback"
	// FailureUnknownProvider is a redirect callback whose provider segment
	// does not match any known provider.
	FailureUnknownProvider FailureKind = "unknown_provider"
	// FailureUnauthorized is a protected API call rejected by the backend,
	// e.g. a stale or revoked token.
	FailureUnauthorized FailureKind = "unauthorized"
	// FailureNetwork is a transport-level failure; no state is mutated and
	// retry is user-initiated.
	FailureNetwork FailureKind = "network"
)

func (k FailureKind) String() string {
	return string(k)
}
