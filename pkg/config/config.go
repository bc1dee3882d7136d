package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Config is the root portal configuration.
type Config struct {
	Server    Server    `yaml:"server"`
	Gateway   Gateway   `yaml:"gateway"`
	Providers Providers `yaml:"providers"`
	Storage   Storage   `yaml:"storage"`
}

// Server configures the portal's own HTTP listener.
type Server struct {
	ListenAddress string `yaml:"listenAddress"`
	// ExternalURL is the base URL the identity provider redirects back to.
	ExternalURL string `yaml:"externalURL"`
	TLSCertFile string `yaml:"tlsCertFile"`
	TLSKeyFile  string `yaml:"tlsKeyFile"`
}

// Gateway configures the backend API gateway connection.
type Gateway struct {
	BaseURL               string `yaml:"baseURL"`
	CAFile                string `yaml:"caFile"`
	InsecureSkipTLSVerify bool   `yaml:"insecureSkipTLSVerify"`
	TimeoutSeconds        int    `yaml:"timeoutSeconds"`
}

// Providers holds the external OAuth2 entry points, one per third-party
// provider. The portal only initiates navigation to these URLs; their
// internals belong to the backend and the identity provider.
type Providers struct {
	Google OAuthEntry `yaml:"google"`
	GitHub OAuthEntry `yaml:"github"`
}

type OAuthEntry struct {
	// AuthorizeURL is the full-page navigation target that starts the
	// provider flow. Defaults to {gateway.baseURL}/oauth2/authorize/{name}.
	AuthorizeURL string `yaml:"authorizeURL"`
}

// Storage selects the token store backend.
type Storage struct {
	// Backend is "file" or "keychain".
	Backend string `yaml:"backend"`
	// TokenPath overrides the default token file location (file backend).
	TokenPath string `yaml:"tokenPath"`
}

const (
	StorageFile     = "file"
	StorageKeychain = "keychain"
)

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnvOverrides()
	return &cfg, nil
}

// LoadOrDefault loads the config file when present and falls back to
// defaults (plus env overrides) when it is not.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		def := Config{}
		def.applyEnvOverrides()
		cfg = &def
	}
	cfg.Defaults()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORTAL_LISTEN_ADDRESS"); v != "" {
		c.Server.ListenAddress = v
	}
	if v := os.Getenv("PORTAL_EXTERNAL_URL"); v != "" {
		c.Server.ExternalURL = v
	}
	if v := os.Getenv("PORTAL_GATEWAY_URL"); v != "" {
		c.Gateway.BaseURL = v
	}
	if v := os.Getenv("PORTAL_TOKEN_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
}

// Defaults fills in unset fields.
func (c *Config) Defaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":8080"
	}
	if c.Server.ExternalURL == "" {
		c.Server.ExternalURL = "http://localhost:8080"
	}
	if c.Gateway.BaseURL == "" {
		c.Gateway.BaseURL = "http://localhost:8090/api"
	}
	if c.Gateway.TimeoutSeconds == 0 {
		c.Gateway.TimeoutSeconds = 30
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = StorageFile
	}
	if c.Storage.TokenPath == "" {
		c.Storage.TokenPath = DefaultTokenPath()
	}
	base := strings.TrimRight(c.Gateway.BaseURL, "/")
	if c.Providers.Google.AuthorizeURL == "" {
		c.Providers.Google.AuthorizeURL = base + "/oauth2/authorize/google"
	}
	if c.Providers.GitHub.AuthorizeURL == "" {
		c.Providers.GitHub.AuthorizeURL = base + "/oauth2/authorize/github"
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Gateway.BaseURL) == "" {
		return errors.New("gateway baseURL is required")
	}
	switch c.Storage.Backend {
	case StorageFile, StorageKeychain:
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}
	if (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == "") {
		return errors.New("tlsCertFile and tlsKeyFile must be set together")
	}
	return nil
}
