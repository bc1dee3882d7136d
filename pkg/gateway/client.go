package gateway

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/alpaca-ads/multiauth-portal/pkg/session"
)

// ErrNoToken is returned when a protected call is attempted with no stored
// token. The call never reaches the network; callers are expected to check
// the session first and degrade to logout instead.
var ErrNoToken = errors.New("no token present; refusing anonymous protected call")

// TokenSource reads the currently stored token. It is the read-only side of
// the token store; the gateway never writes through it.
type TokenSource func() (string, bool)

// APIError is a classified failure from the backend gateway. It carries the
// backend's message so views can surface it, and a FailureKind so logs and
// metrics can tell failure modes apart.
type APIError struct {
	StatusCode int
	Kind       session.FailureKind
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway request failed (%d, %s): %s", e.StatusCode, e.Kind, e.Message)
}

// IsUnauthorized reports whether err is a backend rejection of the presented
// token. This is the signal for the unauthorized cascade: the view reacts by
// logging out rather than retrying.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == session.FailureUnauthorized
}

type Client struct {
	rest   *resty.Client
	tokens TokenSource
	log    *zap.SugaredLogger
}

type Option func(*Client) error

func New(log *zap.SugaredLogger, opts ...Option) (*Client, error) {
	c := &Client{
		rest: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "multiauth-portal"),
		tokens: func() (string, bool) { return "", false },
		log:    log,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.rest.BaseURL == "" {
		return nil, errors.New("gateway server is required")
	}
	return c, nil
}

func WithServer(server string) Option {
	return func(c *Client) error {
		if server == "" {
			return errors.New("gateway server is required")
		}
		c.rest.SetBaseURL(strings.TrimRight(server, "/"))
		return nil
	}
}

func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) error {
		if tokens == nil {
			return errors.New("token source is nil")
		}
		c.tokens = tokens
		return nil
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) error {
		c.rest.SetHeader("User-Agent", userAgent)
		return nil
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		c.rest.SetTimeout(timeout)
		return nil
	}
}

func WithTLSConfig(caFile string, insecureSkipTLSVerify bool) Option {
	return func(c *Client) error {
		tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: insecureSkipTLSVerify}
		if caFile != "" {
			data, err := os.ReadFile(caFile)
			if err != nil {
				return fmt.Errorf("failed to read CA file: %w", err)
			}
			pool := x509.NewCertPool()
			if ok := pool.AppendCertsFromPEM(data); !ok {
				return errors.New("failed to parse CA file")
			}
			tlsConfig.RootCAs = pool
		}
		c.rest.SetTLSClientConfig(tlsConfig)
		return nil
	}
}

// Login exchanges credentials for a bearer token. The token is returned to
// the caller; persisting it is the session service's job.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var out loginResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(creds).
		SetResult(&out).
		Post("/login")
	if err != nil {
		return "", &APIError{Kind: session.FailureNetwork, Message: err.Error()}
	}
	if resp.IsError() {
		return "", classifyError(resp, session.FailureCredentialsInvalid)
	}
	if out.Token == "" {
		// 2xx without a token is still a failed login
		return "", &APIError{
			StatusCode: resp.StatusCode(),
			Kind:       session.FailureCredentialsInvalid,
			Message:    "Authentication failed.",
		}
	}
	return out.Token, nil
}

// GetUserInfo fetches the profile of the authenticated identity, attaching
// the stored bearer token. With no token present the call is refused before
// it reaches the network.
func (c *Client) GetUserInfo(ctx context.Context) (*UserProfile, error) {
	token, ok := c.tokens()
	if !ok {
		return nil, ErrNoToken
	}
	var out UserProfile
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		Get("/userInfo")
	if err != nil {
		return nil, &APIError{Kind: session.FailureNetwork, Message: err.Error()}
	}
	if resp.IsError() {
		return nil, classifyError(resp, session.FailureNetwork)
	}
	return &out, nil
}

// classifyError maps a non-2xx gateway response to an APIError. 401 is
// always FailureUnauthorized on protected calls; the login path passes
// FailureCredentialsInvalid as its 4xx classification instead.
func classifyError(resp *resty.Response, clientKind session.FailureKind) error {
	kind := session.FailureNetwork
	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		if clientKind == session.FailureCredentialsInvalid {
			kind = session.FailureCredentialsInvalid
		} else {
			kind = session.FailureUnauthorized
		}
	case resp.StatusCode() >= 400 && resp.StatusCode() < 500:
		kind = clientKind
	}
	return &APIError{
		StatusCode: resp.StatusCode(),
		Kind:       kind,
		Message:    decodeMessage(resp),
	}
}

func decodeMessage(resp *resty.Response) string {
	var body errorResponse
	if len(resp.Body()) > 0 {
		_ = json.Unmarshal(resp.Body(), &body)
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(body.Error); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(string(resp.Body())); msg != "" {
		return msg
	}
	return resp.Status()
}
