package portal

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/alpaca-ads/multiauth-portal/pkg/config"
	"github.com/alpaca-ads/multiauth-portal/pkg/metrics"
	"github.com/alpaca-ads/multiauth-portal/pkg/session"
)

// stateCookie holds the state parameter handed to the provider entry point,
// so the callback leg can check it if the backend echoes it. The two legs
// share nothing in memory; the browser context may reload in between.
const stateCookie = "portal_oauth_state"

// handleProviderEntry starts the third-party flow: a full-page navigation to
// the external authorize URL for the chosen provider. The portal does not
// control that URL's internals; it only initiates and later consumes the
// redirect callback.
func (s *Server) handleProviderEntry(c *gin.Context) {
	raw := c.Param("provider")
	provider, err := session.ParseOAuthProvider(raw)
	if err != nil {
		// The raw segment is attacker-controlled; it goes to the log only,
		// never into a label.
		metrics.LoginFailure.WithLabelValues(session.ProviderUnresolved.String(), session.FailureUnknownProvider.String()).Inc()
		s.log.Warnw("login attempt with unknown provider", "provider", raw)
		setFlash(c, "Unknown provider")
		redirectToLogin(c)
		return
	}

	var entry config.OAuthEntry
	switch provider {
	case session.ProviderGoogle:
		entry = s.config.Providers.Google
	case session.ProviderGitHub:
		entry = s.config.Providers.GitHub
	}

	oauthCfg := oauth2.Config{
		Endpoint:    oauth2.Endpoint{AuthURL: entry.AuthorizeURL},
		RedirectURL: s.callbackURL(provider),
	}
	state := uuid.NewString()
	c.SetCookie(stateCookie, state, 300, "/", "", false, true)
	c.Redirect(http.StatusFound, oauthCfg.AuthCodeURL(state))
}

func (s *Server) callbackURL(provider session.Provider) string {
	base := strings.TrimRight(s.config.Server.ExternalURL, "/")
	return base + "/oauth2/" + provider.String() + "/redirect"
}
