package portal

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alpaca-ads/multiauth-portal/pkg/apiresponses"
	"github.com/alpaca-ads/multiauth-portal/pkg/metrics"
)

const loginRoute = "/login"

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, loginRoute)
}

// RequireSession is the route guard for browser navigation into the
// protected dashboard subtree. It is group middleware, so it re-runs on
// every request including nested child routes; a parent's earlier allow
// never grandfathers a child. The check is structural (token presence) —
// token validity is the backend's call on the next protected request.
func (s *Server) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.sessions.IsAuthenticated() {
			metrics.GuardDenied.Inc()
			s.log.Debugw("route guard denied navigation", "path", c.Request.URL.Path)
			// The original navigation target is discarded on purpose.
			redirectToLogin(c)
			c.Abort()
			return
		}
		metrics.GuardAllowed.Inc()
		c.Next()
	}
}

// RequireSessionAPI is the same guard for JSON API callers; it answers 401
// instead of redirecting.
func (s *Server) RequireSessionAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.sessions.IsAuthenticated() {
			metrics.GuardDenied.Inc()
			apiresponses.RespondUnauthorized(c)
			c.Abort()
			return
		}
		metrics.GuardAllowed.Inc()
		c.Next()
	}
}
