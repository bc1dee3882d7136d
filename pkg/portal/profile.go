package portal

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/alpaca-ads/multiauth-portal/pkg/gateway"
	"github.com/alpaca-ads/multiauth-portal/pkg/metrics"
	"github.com/alpaca-ads/multiauth-portal/pkg/session"
	"github.com/alpaca-ads/multiauth-portal/pkg/system"
)

// handleProfile renders the protected profile view. The :authProvider label
// only names how the session was obtained; access is decided by token
// presence alone.
func (s *Server) handleProfile(c *gin.Context) {
	sess := s.sessions.Current(session.Provider(c.Param("authProvider")))

	// The guard already ran, but the token can disappear between the guard
	// check and the gateway call (another tab logging out, the keychain
	// entry being removed). Degrade to a clean logout instead of calling
	// the backend with nothing.
	if !sess.Authenticated {
		s.logoutCascade(c, "Please sign in again.")
		return
	}

	log := system.GetReqLogger(c, s.log)
	profile, err := s.gateway.GetUserInfo(c.Request.Context())
	if err != nil {
		if gateway.IsUnauthorized(err) {
			metrics.UnauthorizedCascades.Inc()
			log.Infow("backend rejected session token, clearing session")
			s.logoutCascade(c, "Your session has expired. Please sign in again.")
			return
		}
		if errors.Is(err, gateway.ErrNoToken) {
			s.logoutCascade(c, "Please sign in again.")
			return
		}
		// Transport failure: the session may still be valid, so keep it
		// and show the page with a notification instead.
		log.Warnw("failed to load user info", "error", err)
		renderProfilePage(c, sess.Provider, nil, "Could not load your profile. Please try again.")
		return
	}

	renderProfilePage(c, sess.Provider, profile, "")
}

func (s *Server) logoutCascade(c *gin.Context, notice string) {
	if err := s.sessions.Logout(); err != nil {
		s.log.Errorw("cascaded logout failed", "error", err)
	}
	metrics.Logouts.Inc()
	setFlash(c, notice)
	redirectToLogin(c)
}
