package main

import (
	"flag"
	"time"

	"github.com/alpaca-ads/multiauth-portal/pkg/config"
	"github.com/alpaca-ads/multiauth-portal/pkg/gateway"
	"github.com/alpaca-ads/multiauth-portal/pkg/portal"
	"github.com/alpaca-ads/multiauth-portal/pkg/session"
	"github.com/alpaca-ads/multiauth-portal/pkg/system"
	"github.com/alpaca-ads/multiauth-portal/pkg/version"
)

func main() {
	var debug bool
	var configPath string
	flag.BoolVar(&debug, "debug", false, "enable debug level logging")
	flag.StringVar(&configPath, "config", config.DefaultConfigPath(), "path to config file")
	flag.Parse()

	zl := system.SetupLogger(debug)
	log := zl.Sugar()
	log.With("version", version.Version).Info("Starting multiauth portal")

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		log.Fatalf("Error loading portal config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid portal config: %v", err)
	}

	if debug {
		log.Infof("%#v", cfg)
	}

	var store session.TokenStore
	switch cfg.Storage.Backend {
	case config.StorageKeychain:
		store = session.NewKeyringTokenStore()
	default:
		store = session.NewFileTokenStore(cfg.Storage.TokenPath)
	}
	sessions := session.NewService(log, store)

	gw, err := gateway.New(log,
		gateway.WithServer(cfg.Gateway.BaseURL),
		gateway.WithTokenSource(sessions.Token),
		gateway.WithTimeout(time.Duration(cfg.Gateway.TimeoutSeconds)*time.Second),
		gateway.WithTLSConfig(cfg.Gateway.CAFile, cfg.Gateway.InsecureSkipTLSVerify),
	)
	if err != nil {
		log.Fatalf("Error building gateway client: %v", err)
	}

	server := portal.NewServer(zl, cfg, sessions, gw, debug)
	log.Infow("Listening", "address", cfg.Server.ListenAddress)
	if err := server.Listen(); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
