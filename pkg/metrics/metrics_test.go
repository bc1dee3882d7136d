package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(GuardDenied)
	GuardDenied.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(GuardDenied))

	beforeVec := testutil.ToFloat64(OAuthCallbacks.WithLabelValues("google", "success"))
	OAuthCallbacks.WithLabelValues("google", "success").Inc()
	assert.Equal(t, beforeVec+1, testutil.ToFloat64(OAuthCallbacks.WithLabelValues("google", "success")))
}

func TestHandlerServesRegistry(t *testing.T) {
	LoginFailure.WithLabelValues("local", "credentials_invalid").Inc()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "portal_login_failure_total")
}
