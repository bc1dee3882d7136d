// Package config loads and validates the portal configuration from a YAML
// file with environment variable overrides, and resolves the default
// config/token paths under the user config dir.
package config
