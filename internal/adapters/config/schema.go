package config

import "go.trai.ch/mirror/internal/core/domain"

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "MIRROR_"

// Config is the structure of the mirror.yaml configuration file.
// Every scalar field can be overridden from the environment, e.g. MIRROR_STORE_PATH.
type Config struct {
	// StorePath is the SQLite entity store file.
	StorePath string `yaml:"store_path" env:"STORE_PATH"`
	// Ephemeral keeps the cache in process memory instead of the store file.
	Ephemeral bool `yaml:"ephemeral" env:"EPHEMERAL"`

	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
	Display  DisplayConfig  `yaml:"display" envPrefix:"DISPLAY_"`
	Platform PlatformConfig `yaml:"platform" envPrefix:"PLATFORM_"`

	// Namespaces holds per-namespace refresh policy overrides keyed by namespace name.
	Namespaces map[string]domain.RefreshPolicy `yaml:"namespaces"`
}

// LogConfig selects the log output format.
type LogConfig struct {
	JSON bool `yaml:"json" env:"JSON"`
}

// DisplayConfig holds the pagination defaults.
type DisplayConfig struct {
	Page     int `yaml:"page" env:"PAGE"`
	PageSize int `yaml:"page_size" env:"PAGE_SIZE"`
}

// PlatformConfig locates the remote platform API.
type PlatformConfig struct {
	// BaseURL is empty for the public API.
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	// Token is only read from the environment and never written back.
	Token string `yaml:"-" env:"TOKEN"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		StorePath: domain.DefaultStorePath(),
		Display: DisplayConfig{
			Page:     domain.DefaultPage,
			PageSize: domain.DefaultPageSize,
		},
	}
}

// Catalog returns the namespace catalog with this configuration's overrides applied.
func (c *Config) Catalog() ([]domain.Namespace, error) {
	return domain.ApplyOverrides(domain.Catalog(), c.Namespaces)
}
