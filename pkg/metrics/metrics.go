package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Login flow metrics
	LoginSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_login_success_total",
		Help: "Total number of successful logins",
	}, []string{"provider"})
	LoginFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_login_failure_total",
		Help: "Total number of failed logins, grouped by failure classification",
	}, []string{"provider", "kind"})

	// OAuth2 redirect callback metrics, grouped by outcome so denied,
	// malformed and unknown-provider callbacks stay distinguishable even
	// though the user sees the same message.
	OAuthCallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_oauth_callbacks_total",
		Help: "Total number of OAuth2 redirect callbacks received, by outcome",
	}, []string{"provider", "outcome"})

	// Route guard metrics
	GuardAllowed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portal_guard_allowed_total",
		Help: "Total number of protected navigations allowed by the route guard",
	})
	GuardDenied = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portal_guard_denied_total",
		Help: "Total number of protected navigations denied by the route guard",
	})

	// Session lifecycle metrics
	Logouts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portal_logouts_total",
		Help: "Total number of logouts, explicit and cascaded",
	})
	UnauthorizedCascades = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portal_unauthorized_cascades_total",
		Help: "Total number of logouts triggered by a backend Unauthorized response",
	})
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		LoginSuccess,
		LoginFailure,
		OAuthCallbacks,
		GuardAllowed,
		GuardDenied,
		Logouts,
		UnauthorizedCascades,
	)
}

// Handler returns the HTTP handler serving the portal metrics registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
