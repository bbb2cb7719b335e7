package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reset drops state accumulated by previous Init calls.
func reset() {
	k = koanf.New(".")
	Config = Configuration{}
}

func TestInitDefaults(t *testing.T) {
	reset()
	require.NoError(t, Init(""))

	assert.True(t, Config.Scanner.IgnoreSmall)
	assert.False(t, Config.Scanner.DryRun)
	assert.True(t, Config.Notifications.Detailed)
	assert.False(t, Config.Notifications.SkipEmptyRun)
	assert.Empty(t, Config.Filter.IgnoreExtensions)
}

func TestInitFromFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
scanner:
  ignore_small: false
  dry_run: true
filter:
  ignore_paths:
    - /data/incomplete
  ignore_extensions:
    - .tmp
    - .part
  ignore_expressions:
    - 'Size > 1024'
notifications:
  detailed: false
  service:
    discord: https://discord.com/api/webhooks/123/abc
`), 0o644))

	reset()
	require.NoError(t, Init(configFile))

	assert.False(t, Config.Scanner.IgnoreSmall)
	assert.True(t, Config.Scanner.DryRun)
	assert.Equal(t, []string{"/data/incomplete"}, Config.Filter.IgnorePaths)
	assert.Equal(t, []string{".tmp", ".part"}, Config.Filter.IgnoreExtensions)
	assert.Equal(t, []string{"Size > 1024"}, Config.Filter.IgnoreExpressions)
	assert.False(t, Config.Notifications.Detailed)
	assert.Equal(t, "https://discord.com/api/webhooks/123/abc", Config.Notifications.Service.Discord)
}

func TestInitMissingFileUsesDefaults(t *testing.T) {
	reset()
	require.NoError(t, Init(filepath.Join(t.TempDir(), "nope.yaml")))

	assert.True(t, Config.Scanner.IgnoreSmall)
}

func TestInitEnvOverrides(t *testing.T) {
	t.Setenv("DUPESWEEP_SCANNER__DRY_RUN", "true")
	t.Setenv("DUPESWEEP_NOTIFICATIONS__SERVICE__DISCORD", "https://example.com/hook")

	reset()
	require.NoError(t, Init(""))

	assert.True(t, Config.Scanner.DryRun)
	assert.Equal(t, "https://example.com/hook", Config.Notifications.Service.Discord)
}

func TestInitMalformedFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("scanner: [not: a: map"), 0o644))

	reset()
	assert.Error(t, Init(configFile))
}
