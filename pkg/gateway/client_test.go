package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpaca-ads/multiauth-portal/pkg/session"
	"github.com/alpaca-ads/multiauth-portal/pkg/system"
)

func staticTokens(token string) TokenSource {
	return func() (string, bool) { return token, token != "" }
}

func newTestClient(t *testing.T, server string, tokens TokenSource) *Client {
	t.Helper()
	opts := []Option{WithServer(server)}
	if tokens != nil {
		opts = append(opts, WithTokenSource(tokens))
	}
	c, err := New(system.NewTestLogger(), opts...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{name: "missing server", opts: []Option{}, wantErr: true},
		{name: "empty server", opts: []Option{WithServer("")}, wantErr: true},
		{name: "nil token source", opts: []Option{WithServer("https://example.com"), WithTokenSource(nil)}, wantErr: true},
		{name: "valid", opts: []Option{WithServer("https://example.com"), WithTokenSource(staticTokens("tok"))}},
		{name: "with user agent", opts: []Option{WithServer("https://example.com"), WithUserAgent("apctl")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(system.NewTestLogger(), tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "alice", creds.Username)
		require.Equal(t, "correct", creds.Password)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "issued-token"})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	token, err := c.Login(context.Background(), Credentials{Username: "alice", Password: "correct"})
	require.NoError(t, err)
	assert.Equal(t, "issued-token", token)
}

func TestLogin_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	_, err := c.Login(context.Background(), Credentials{Username: "alice", Password: "wrong"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, session.FailureCredentialsInvalid, apiErr.Kind)
	assert.Equal(t, "Bad credentials", apiErr.Message)
}

func TestLogin_EmptyTokenInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	_, err := c.Login(context.Background(), Credentials{Username: "alice", Password: "correct"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, session.FailureCredentialsInvalid, apiErr.Kind)
}

func TestLogin_NetworkFailure(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", nil)
	_, err := c.Login(context.Background(), Credentials{Username: "alice", Password: "pw"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, session.FailureNetwork, apiErr.Kind)
}

func TestGetUserInfo_AttachesBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/userInfo", r.URL.Path)
		require.Equal(t, "Bearer stored-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(UserProfile{ID: "42", Username: "alice", Name: "Alice", Enabled: true})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, staticTokens("stored-token"))
	profile, err := c.GetUserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "42", profile.ID)
	assert.Equal(t, "alice", profile.Username)
	assert.True(t, profile.Enabled)
}

func TestGetUserInfo_NoTokenNeverReachesNetwork(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, staticTokens(""))
	_, err := c.GetUserInfo(context.Background())
	require.ErrorIs(t, err, ErrNoToken)
	assert.Zero(t, requests.Load())
}

func TestGetUserInfo_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Token expired"})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, staticTokens("stale-token"))
	_, err := c.GetUserInfo(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, session.FailureUnauthorized, apiErr.Kind)
	assert.Equal(t, "Token expired", apiErr.Message)
}

func TestDecodeMessage_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{name: "message field", status: 401, body: `{"message":"Bad credentials"}`, expected: "Bad credentials"},
		{name: "error field", status: 400, body: `{"error":"invalid request"}`, expected: "invalid request"},
		{name: "raw body", status: 500, body: "boom", expected: "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := newTestClient(t, server.URL, staticTokens("tok"))
			_, err := c.GetUserInfo(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.expected, apiErr.Message)
		})
	}
}

func TestIsUnauthorized(t *testing.T) {
	assert.False(t, IsUnauthorized(nil))
	assert.False(t, IsUnauthorized(ErrNoToken))
	assert.False(t, IsUnauthorized(&APIError{Kind: session.FailureNetwork}))
	assert.True(t, IsUnauthorized(&APIError{Kind: session.FailureUnauthorized}))
}
