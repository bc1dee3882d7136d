package portal

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpaca-ads/multiauth-portal/pkg/metrics"
	"github.com/alpaca-ads/multiauth-portal/pkg/session"
)

func TestProviderEntryRedirectsToAuthorizeURL(t *testing.T) {
	srv, _ := newTestServer(t, newBackend(t).URL)

	w := doGET(srv, "/auth/google")

	require.Equal(t, http.StatusFound, w.Code)
	target, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/oauth2/authorize/google", target.Path)
	assert.Equal(t, "http://localhost:8080/oauth2/google/redirect", target.Query().Get("redirect_uri"))
	assert.NotEmpty(t, target.Query().Get("state"))
}

func TestProviderEntryRejectsLocalAndUnknown(t *testing.T) {
	srv, _ := newTestServer(t, newBackend(t).URL)

	unknownLogins := metrics.LoginFailure.WithLabelValues(
		session.ProviderUnresolved.String(), session.FailureUnknownProvider.String())
	before := testutil.ToFloat64(unknownLogins)

	// Local logins never go through the provider entry point.
	for _, path := range []string{"/auth/local", "/auth/myspace"} {
		w := doGET(srv, path)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}
	assert.Equal(t, before+2, testutil.ToFloat64(unknownLogins))
}

func TestOAuthCallbackEstablishesSessionBeforeRedirect(t *testing.T) {
	srv, sessions := newTestServer(t, newBackend(t).URL)

	w := doGET(srv, "/oauth2/google/redirect?token=abc123")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/profile/google", w.Header().Get("Location"))
	token, ok := sessions.Token()
	require.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestOAuthCallbackDenied(t *testing.T) {
	srv, sessions := newTestServer(t, newBackend(t).URL)

	w := doGET(srv, "/oauth2/google/redirect?error=access_denied")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.False(t, sessions.IsAuthenticated())
}

func TestOAuthCallbackMalformed(t *testing.T) {
	srv, sessions := newTestServer(t, newBackend(t).URL)

	// Neither token nor error parameter.
	w := doGET(srv, "/oauth2/github/redirect")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.False(t, sessions.IsAuthenticated())
}

func TestOAuthCallbackUnknownProvider(t *testing.T) {
	srv, sessions := newTestServer(t, newBackend(t).URL)

	unknownCallbacks := metrics.OAuthCallbacks.WithLabelValues(
		session.ProviderUnresolved.String(), session.FailureUnknownProvider.String())
	before := testutil.ToFloat64(unknownCallbacks)

	for _, path := range []string{
		"/oauth2/myspace/redirect?token=abc123",
		"/oauth2/local/redirect?token=abc123",
	} {
		w := doGET(srv, path)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}
	assert.False(t, sessions.IsAuthenticated())
	// Arbitrary path segments collapse onto one bounded label value.
	assert.Equal(t, before+2, testutil.ToFloat64(unknownCallbacks))
}

func TestOAuthCallbackFailureKeepsExistingSession(t *testing.T) {
	srv, sessions := newTestServer(t, newBackend(t).URL)
	require.NoError(t, sessions.SetAuthentication("existing"))

	// A failed retry must not clobber the session that was valid before it.
	doGET(srv, "/oauth2/google/redirect?error=access_denied")
	doGET(srv, "/oauth2/github/redirect")

	token, ok := sessions.Token()
	require.True(t, ok)
	assert.Equal(t, "existing", token)
}

func TestOAuthCallbackStateMismatch(t *testing.T) {
	srv, sessions := newTestServer(t, newBackend(t).URL)

	cookie := &http.Cookie{Name: stateCookie, Value: "expected-state"}
	w := doGET(srv, "/oauth2/google/redirect?token=abc123&state=tampered", cookie)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.False(t, sessions.IsAuthenticated())
}

func TestOAuthCallbackStateEchoedCorrectly(t *testing.T) {
	srv, sessions := newTestServer(t, newBackend(t).URL)

	cookie := &http.Cookie{Name: stateCookie, Value: "expected-state"}
	w := doGET(srv, "/oauth2/google/redirect?token=abc123&state=expected-state", cookie)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/profile/google", w.Header().Get("Location"))
	assert.True(t, sessions.IsAuthenticated())
}
