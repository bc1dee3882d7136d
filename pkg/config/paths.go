package config

import (
	"os"
	"path/filepath"
)

const (
	defaultConfigDirName = "multiauth-portal"
	defaultConfigFile    = "config.yaml"
	defaultTokenFile     = "token"
)

func DefaultConfigPath() string {
	if env := os.Getenv("PORTAL_CONFIG"); env != "" {
		return env
	}
	base, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(base, defaultConfigDirName, defaultConfigFile)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".multiauth-portal", defaultConfigFile)
}

func DefaultTokenPath() string {
	if env := os.Getenv("PORTAL_TOKEN_PATH"); env != "" {
		return env
	}
	base, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(base, defaultConfigDirName, defaultTokenFile)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".multiauth-portal", defaultTokenFile)
}
