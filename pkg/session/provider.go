package session

import "fmt"

// Provider identifies the identity source that vouches for a session.
type Provider string

const (
	// ProviderLocal is the username/password credential store.
	ProviderLocal Provider = "local"
	// ProviderGoogle is the Google OAuth2 authorization server.
	ProviderGoogle Provider = "google"
	// ProviderGitHub is the GitHub OAuth2 authorization server.
	ProviderGitHub Provider = "github"
	// ProviderUnresolved is the placeholder before a provider is known, e.g.
	// before route parameters have been read. It is never a valid
	// authenticated provider.
	ProviderUnresolved Provider = "unresolved"
)

// ParseProvider maps a route segment to a known provider. Anything that is
// not a known provider comes back as ProviderUnresolved with an error so
// callers can classify it separately from a failed login.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderLocal:
		return ProviderLocal, nil
	case ProviderGoogle:
		return ProviderGoogle, nil
	case ProviderGitHub:
		return ProviderGitHub, nil
	}
	return ProviderUnresolved, fmt.Errorf("unknown provider: %q", s)
}

// ParseOAuthProvider is ParseProvider restricted to the providers that can
// appear in an OAuth2 redirect callback. Local logins never round-trip
// through the redirect route.
func ParseOAuthProvider(s string) (Provider, error) {
	p, err := ParseProvider(s)
	if err != nil {
		return ProviderUnresolved, err
	}
	if p == ProviderLocal {
		return ProviderUnresolved, fmt.Errorf("provider %q cannot use the redirect callback", s)
	}
	return p, nil
}

// Known reports whether p is one of the valid authenticated providers.
func (p Provider) Known() bool {
	switch p {
	case ProviderLocal, ProviderGoogle, ProviderGitHub:
		return true
	}
	return false
}

// DisplayName returns the human-readable provider name shown on the profile
// view.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderGitHub:
		return "GitHub"
	case ProviderGoogle:
		return "Google"
	case ProviderLocal:
		return "Email/Password"
	default:
		return "Unknown"
	}
}

func (p Provider) String() string {
	return string(p)
}
