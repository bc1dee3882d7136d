package portal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alpaca-ads/multiauth-portal/pkg/config"
	"github.com/alpaca-ads/multiauth-portal/pkg/gateway"
	"github.com/alpaca-ads/multiauth-portal/pkg/session"
)

const (
	testUsername = "alice"
	testPassword = "secret"
	testToken    = "issued-token"
)

// newBackend fakes the API gateway: /login issues a token for the known
// credentials, /userInfo requires that token as a bearer.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var creds gateway.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if creds.Username != testUsername || creds.Password != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"` + testToken + `"}`))
	})
	mux.HandleFunc("/userInfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u-1","username":"alice","name":"Alice","enabled":true}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// newTestServer wires a portal server against the given backend URL with an
// in-memory token store.
func newTestServer(t *testing.T, backendURL string) (*Server, *session.Service) {
	t.Helper()
	log := zap.NewNop()
	sessions := session.NewService(log.Sugar(), session.NewMemoryTokenStore())

	cfg := &config.Config{}
	cfg.Gateway.BaseURL = backendURL
	cfg.Defaults()

	gw, err := gateway.New(log.Sugar(),
		gateway.WithServer(backendURL),
		gateway.WithTokenSource(sessions.Token),
	)
	require.NoError(t, err)

	return NewServer(log, cfg, sessions, gw, false), sessions
}

func doGET(srv *Server, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}
