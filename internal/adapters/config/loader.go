// Package config provides the configuration loader for mirror.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// PathEnv names the environment variable that points at an alternative config file.
const PathEnv = EnvPrefix + "CONFIG"

// Loader reads the YAML configuration and applies environment overrides.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Path returns the config file location, honoring MIRROR_CONFIG.
func Path() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return domain.DefaultConfigPath()
}

// Load reads the configuration file at path. A missing file yields the defaults.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
		}
		if l.Logger != nil {
			l.Logger.Info(fmt.Sprintf("loaded configuration from %s", path))
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigEnvFailed.Error())
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.StorePath == "" {
		cfg.StorePath = domain.DefaultStorePath()
	}
	if cfg.Display.Page < 1 {
		cfg.Display.Page = domain.DefaultPage
	}
	if cfg.Display.PageSize < 1 {
		cfg.Display.PageSize = domain.DefaultPageSize
	}

	for name, p := range cfg.Namespaces {
		if p.HardTTL < 0 || p.ThrottleWindow < 0 || p.StaleAfter < 0 || p.FetchSize < 0 {
			return zerr.With(zerr.Wrap(domain.ErrInvalidPolicyOverride, "negative value"), "namespace", name)
		}
	}

	if _, err := cfg.Catalog(); err != nil {
		return errors.Join(domain.ErrInvalidPolicyOverride, err)
	}
	return nil
}
