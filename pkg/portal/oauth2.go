package portal

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alpaca-ads/multiauth-portal/pkg/metrics"
	"github.com/alpaca-ads/multiauth-portal/pkg/session"
	"github.com/alpaca-ads/multiauth-portal/pkg/system"
)

// handleOAuthCallback consumes the redirect leg of the third-party flow. The
// backend has already completed the provider exchange; the callback only
// carries the resulting token (or an error indicator) back to the portal.
// On every failure path the token store is left untouched, so a session that
// was valid before a failed retry stays valid.
func (s *Server) handleOAuthCallback(c *gin.Context) {
	log := system.GetReqLogger(c, s.log)
	raw := c.Param("provider")
	provider, err := session.ParseOAuthProvider(raw)
	if err != nil {
		// Unknown segments share one label value to keep cardinality bounded;
		// the raw value is only logged.
		metrics.OAuthCallbacks.WithLabelValues(session.ProviderUnresolved.String(), session.FailureUnknownProvider.String()).Inc()
		log.Warnw("oauth2 callback for unknown provider", "provider", raw)
		s.failOAuth(c)
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		metrics.OAuthCallbacks.WithLabelValues(provider.String(), session.FailureOAuthDenied.String()).Inc()
		log.Infow("oauth2 flow denied by provider",
			"provider", provider,
			"error", errParam,
			"description", c.Query("error_description"))
		s.failOAuth(c)
		return
	}

	token := c.Query("token")
	if token == "" {
		metrics.OAuthCallbacks.WithLabelValues(provider.String(), session.FailureOAuthMalformed.String()).Inc()
		log.Warnw("oauth2 callback without token", "provider", provider)
		s.failOAuth(c)
		return
	}

	if expected, err := c.Cookie(stateCookie); err == nil && expected != "" {
		c.SetCookie(stateCookie, "", -1, "/", "", false, true)
		if got := c.Query("state"); got != "" && got != expected {
			metrics.OAuthCallbacks.WithLabelValues(provider.String(), "state_mismatch").Inc()
			log.Warnw("oauth2 callback state mismatch", "provider", provider)
			s.failOAuth(c)
			return
		}
	}

	if err := s.sessions.SetAuthentication(token); err != nil {
		metrics.OAuthCallbacks.WithLabelValues(provider.String(), "store_error").Inc()
		log.Errorw("failed to persist session token", "provider", provider, "error", err)
		s.failOAuth(c)
		return
	}

	metrics.OAuthCallbacks.WithLabelValues(provider.String(), "success").Inc()
	// Token write completed; the guard on the target route sees the session.
	c.Redirect(http.StatusSeeOther, "/dashboard/profile/"+provider.String())
}

// failOAuth sends the user back to the login view with the uniform failure
// notification. The outcome-specific detail lives in logs and metrics only.
func (s *Server) failOAuth(c *gin.Context) {
	setFlash(c, "Authentication failed. Please try again.")
	redirectToLogin(c)
}
