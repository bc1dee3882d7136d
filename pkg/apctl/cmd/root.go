package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alpaca-ads/multiauth-portal/pkg/config"
	"github.com/alpaca-ads/multiauth-portal/pkg/gateway"
	"github.com/alpaca-ads/multiauth-portal/pkg/session"
)

// Config carries the injectable pieces of the root command so tests can
// point it at a temp config and capture output.
type Config struct {
	ConfigPath   string
	OutputWriter io.Writer
}

type runtimeState struct {
	configPath      string
	cfg             *config.Config
	outputFormat    string
	serverOverride  string
	storageOverride string
	tokenPath       string
	writer          io.Writer
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{
		ConfigPath:   config.DefaultConfigPath(),
		OutputWriter: os.Stdout,
	}
}

// NewRootCommand builds the apctl command tree. apctl shares the portal's
// config file and token store, so a login here is the same session the
// portal observes.
func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{configPath: cfg.ConfigPath, writer: cfg.OutputWriter}

	root := &cobra.Command{
		Use:   "apctl",
		Short: "Alpaca portal CLI",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.configPath == "" {
				rt.configPath = config.DefaultConfigPath()
			}
			if rt.outputFormat == "" {
				rt.outputFormat = os.Getenv("APCTL_OUTPUT")
			}
			if rt.serverOverride == "" {
				rt.serverOverride = os.Getenv("APCTL_SERVER")
			}
			if rt.storageOverride == "" {
				rt.storageOverride = os.Getenv("APCTL_TOKEN_STORAGE")
			}

			if cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}

			loaded, err := config.LoadOrDefault(rt.configPath)
			if err != nil {
				return err
			}
			if rt.serverOverride != "" {
				loaded.Gateway.BaseURL = rt.serverOverride
			}
			if rt.storageOverride != "" {
				loaded.Storage.Backend = rt.storageOverride
			}
			if rt.tokenPath != "" {
				loaded.Storage.TokenPath = rt.tokenPath
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			rt.cfg = loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", rt.configPath, "Path to config file")
	root.PersistentFlags().StringVarP(&rt.outputFormat, "output", "o", "", "Output format: table, json, yaml")
	root.PersistentFlags().StringVar(&rt.serverOverride, "server", "", "Gateway server override (bypass config)")
	root.PersistentFlags().StringVar(&rt.storageOverride, "token-storage", "", "Token storage backend: keychain or file")
	root.PersistentFlags().StringVar(&rt.tokenPath, "token-path", "", "Token file location (file backend)")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewAuthCommand(),
		NewWhoamiCommand(),
		NewVersionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) OutputFormat() string {
	if rt.outputFormat != "" {
		return rt.outputFormat
	}
	return "table"
}

// sessions builds the session service over the configured token store.
func (rt *runtimeState) sessions() (*session.Service, error) {
	if rt.cfg == nil {
		return nil, errors.New("config not loaded")
	}
	var store session.TokenStore
	switch rt.cfg.Storage.Backend {
	case config.StorageKeychain:
		store = session.NewKeyringTokenStore()
	case config.StorageFile:
		store = session.NewFileTokenStore(rt.cfg.Storage.TokenPath)
	default:
		return nil, errors.New("unknown storage backend: " + rt.cfg.Storage.Backend)
	}
	return session.NewService(zap.NewNop().Sugar(), store), nil
}

// gatewayClient builds the backend client reading tokens from the given
// session service.
func (rt *runtimeState) gatewayClient(sessions *session.Service) (*gateway.Client, error) {
	if rt.cfg == nil {
		return nil, errors.New("config not loaded")
	}
	return gateway.New(zap.NewNop().Sugar(),
		gateway.WithServer(rt.cfg.Gateway.BaseURL),
		gateway.WithTokenSource(sessions.Token),
		gateway.WithTimeout(time.Duration(rt.cfg.Gateway.TimeoutSeconds)*time.Second),
		gateway.WithTLSConfig(rt.cfg.Gateway.CAFile, rt.cfg.Gateway.InsecureSkipTLSVerify),
		gateway.WithUserAgent("apctl"),
	)
}
