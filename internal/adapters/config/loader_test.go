package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mirror/internal/adapters/config"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.NewLoader(nil).Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultStorePath(), cfg.StorePath)
	assert.Equal(t, domain.DefaultPage, cfg.Display.Page)
	assert.Equal(t, domain.DefaultPageSize, cfg.Display.PageSize)
	assert.False(t, cfg.Log.JSON)
	assert.Empty(t, cfg.Namespaces)
}

func TestLoad_Success(t *testing.T) {
	path := writeConfig(t, `
store_path: /var/cache/mirror/entities.db
log:
  json: true
display:
  page: 2
  page_size: 50
platform:
  base_url: https://git.example.com/api/v3/
namespaces:
  repo-files:
    hard_ttl: 15m
  comments:
    stale_after: 1h
    throttle_window: 10m
`)

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).Times(1)

	cfg, err := config.NewLoader(log).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/cache/mirror/entities.db", cfg.StorePath)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 2, cfg.Display.Page)
	assert.Equal(t, 50, cfg.Display.PageSize)
	assert.Equal(t, "https://git.example.com/api/v3/", cfg.Platform.BaseURL)

	catalog, err := cfg.Catalog()
	require.NoError(t, err)

	byName := make(map[string]domain.Namespace, len(catalog))
	for _, ns := range catalog {
		byName[ns.Name] = ns
	}
	assert.Equal(t, 15*time.Minute, byName[domain.NamespaceRepoFiles].Policy.HardTTL)
	assert.Equal(t, domain.DefaultThrottleWindow, byName[domain.NamespaceRepoFiles].Policy.ThrottleWindow)
	assert.Equal(t, time.Hour, byName[domain.NamespaceComments].Policy.StaleAfter)
	assert.Equal(t, 10*time.Minute, byName[domain.NamespaceComments].Policy.ThrottleWindow)
	assert.Equal(t, domain.RoleTTL, byName[domain.NamespaceRoles].Policy.HardTTL)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
store_path: from-file.db
display:
  page_size: 10
`)
	t.Setenv("MIRROR_STORE_PATH", "from-env.db")
	t.Setenv("MIRROR_DISPLAY_PAGE_SIZE", "30")
	t.Setenv("MIRROR_LOG_JSON", "true")
	t.Setenv("MIRROR_PLATFORM_TOKEN", "secret")
	t.Setenv("MIRROR_EPHEMERAL", "true")

	cfg, err := config.NewLoader(nil).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env.db", cfg.StorePath)
	assert.Equal(t, 30, cfg.Display.PageSize)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "secret", cfg.Platform.Token)
	assert.True(t, cfg.Ephemeral)
}

func TestLoad_TokenIsNotReadFromFile(t *testing.T) {
	path := writeConfig(t, `
platform:
  token: leaked
`)

	cfg, err := config.NewLoader(nil).Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Platform.Token)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr error
		wantMsg string
	}{
		{
			name:    "malformed yaml",
			content: "store_path: [unterminated",
			wantMsg: domain.ErrConfigParseFailed.Error(),
		},
		{
			name: "unknown namespace override",
			content: `
namespaces:
  not-a-namespace:
    stale_after: 1h
`,
			wantErr: domain.ErrUnknownNamespace,
		},
		{
			name: "negative override",
			content: `
namespaces:
  roles:
    hard_ttl: -1m
`,
			wantErr: domain.ErrInvalidPolicyOverride,
		},
		{
			name:    "malformed environment value",
			content: "",
			env:     map[string]string{"MIRROR_DISPLAY_PAGE": "first"},
			wantMsg: domain.ErrConfigEnvFailed.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.NewLoader(nil).Load(writeConfig(t, tt.content))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.ErrorContains(t, err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_UnreadablePath(t *testing.T) {
	// A directory cannot be read as a file.
	_, err := config.NewLoader(nil).Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())
}

func TestPath(t *testing.T) {
	t.Setenv(config.PathEnv, "")
	assert.Equal(t, domain.DefaultConfigPath(), config.Path())

	t.Setenv(config.PathEnv, "/etc/mirror.yaml")
	assert.Equal(t, "/etc/mirror.yaml", config.Path())
}

func TestPreferences(t *testing.T) {
	cfg := config.Default()
	cfg.Display.Page = 3
	cfg.Display.PageSize = 7

	prefs := config.NewPreferences(cfg)
	assert.Equal(t, 3, prefs.DefaultPage())
	assert.Equal(t, 7, prefs.DefaultPageSize())
}
