package portal

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alpaca-ads/multiauth-portal/pkg/gateway"
	"github.com/alpaca-ads/multiauth-portal/pkg/metrics"
	"github.com/alpaca-ads/multiauth-portal/pkg/session"
	"github.com/alpaca-ads/multiauth-portal/pkg/system"
)

func (s *Server) handleLoginPage(c *gin.Context) {
	notice, _ := popFlash(c)
	renderLoginPage(c, http.StatusOK, notice)
}

// handleLoginSubmit runs the credential exchange. The token write completes
// before the redirect is issued, so the route guard evaluated for the next
// navigation always observes the new session.
func (s *Server) handleLoginSubmit(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		renderLoginPage(c, http.StatusBadRequest, "Username and password are required.")
		return
	}

	token, err := s.gateway.Login(c.Request.Context(), gateway.Credentials{
		Username: username,
		Password: password,
	})
	if err != nil {
		kind, message := classifyLoginError(err)
		metrics.LoginFailure.WithLabelValues(session.ProviderLocal.String(), kind.String()).Inc()
		system.GetReqLogger(c, s.log).Infow("credential login failed", "username", username, "kind", kind)
		status := http.StatusUnauthorized
		if kind == session.FailureNetwork {
			status = http.StatusBadGateway
		}
		renderLoginPage(c, status, message)
		return
	}

	if err := s.sessions.SetAuthentication(token); err != nil {
		s.log.Errorw("failed to persist session token", "error", err)
		renderLoginPage(c, http.StatusInternalServerError, "Authentication failed.")
		return
	}

	metrics.LoginSuccess.WithLabelValues(session.ProviderLocal.String()).Inc()
	c.Redirect(http.StatusSeeOther, "/dashboard/profile/"+session.ProviderLocal.String())
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.sessions.Logout(); err != nil {
		s.log.Errorw("logout failed", "error", err)
	}
	metrics.Logouts.Inc()
	redirectToLogin(c)
}

// classifyLoginError maps a gateway error to its failure kind and the
// message shown on the login form. Credential rejections surface the
// backend's message; transport failures get a generic retry hint and no
// state is mutated either way.
func classifyLoginError(err error) (session.FailureKind, string) {
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		return session.FailureNetwork, "Authentication failed."
	}
	switch apiErr.Kind {
	case session.FailureCredentialsInvalid:
		message := apiErr.Message
		if message == "" {
			message = "Authentication failed."
		}
		return apiErr.Kind, message
	case session.FailureNetwork:
		return apiErr.Kind, "Unable to reach the authentication service. Please try again."
	default:
		return apiErr.Kind, "Authentication failed."
	}
}
