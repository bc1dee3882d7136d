package portal

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/alpaca-ads/multiauth-portal/pkg/apiresponses"
	"github.com/alpaca-ads/multiauth-portal/pkg/gateway"
	"github.com/alpaca-ads/multiauth-portal/pkg/metrics"
	"github.com/alpaca-ads/multiauth-portal/pkg/session"
)

// The /api routes expose the same session operations as the HTML views for
// programmatic clients (apctl, a future SPA). They share the session service
// and gateway client with the view handlers, so both surfaces observe the
// same session.

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Provider      string `json:"provider,omitempty"`
}

func (s *Server) apiLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiresponses.RespondBadRequest(c, "username and password are required")
		return
	}

	token, err := s.gateway.Login(c.Request.Context(), gateway.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		kind, message := classifyLoginError(err)
		metrics.LoginFailure.WithLabelValues(session.ProviderLocal.String(), kind.String()).Inc()
		if kind == session.FailureNetwork {
			apiresponses.RespondBadGateway(c, message)
			return
		}
		apiresponses.RespondUnauthorizedWithMessage(c, message)
		return
	}

	if err := s.sessions.SetAuthentication(token); err != nil {
		apiresponses.RespondInternalError(c, "persist session token", err, s.log)
		return
	}

	metrics.LoginSuccess.WithLabelValues(session.ProviderLocal.String()).Inc()
	apiresponses.RespondOK(c, sessionResponse{
		Authenticated: true,
		Provider:      session.ProviderLocal.String(),
	})
}

func (s *Server) apiSession(c *gin.Context) {
	apiresponses.RespondOK(c, sessionResponse{
		Authenticated: s.sessions.IsAuthenticated(),
	})
}

func (s *Server) apiLogout(c *gin.Context) {
	if err := s.sessions.Logout(); err != nil {
		apiresponses.RespondInternalError(c, "clear session", err, s.log)
		return
	}
	metrics.Logouts.Inc()
	apiresponses.RespondNoContent(c)
}

func (s *Server) apiProfile(c *gin.Context) {
	profile, err := s.gateway.GetUserInfo(c.Request.Context())
	if err != nil {
		if gateway.IsUnauthorized(err) || errors.Is(err, gateway.ErrNoToken) {
			if gateway.IsUnauthorized(err) {
				metrics.UnauthorizedCascades.Inc()
			}
			if logoutErr := s.sessions.Logout(); logoutErr != nil {
				s.log.Errorw("cascaded logout failed", "error", logoutErr)
			}
			metrics.Logouts.Inc()
			apiresponses.RespondUnauthorizedWithMessage(c, "session expired")
			return
		}
		apiresponses.RespondBadGateway(c, "failed to load user info")
		return
	}
	apiresponses.RespondOK(c, profile)
}
