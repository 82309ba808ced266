package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Version, cfg.Version)
	assert.Equal(t, 5, cfg.Input.TopK)
	assert.True(t, cfg.Dictionary.Learn)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero version", func(c *Config) { c.Version = 0 }},
		{"top_k too large", func(c *Config) { c.Input.TopK = 50 }},
		{"top_k zero", func(c *Config) { c.Input.TopK = 0 }},
		{"queue size zero", func(c *Config) { c.UI.QueueSize = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad log output", func(c *Config) { c.Logging.Output = "syslog" }},
		{"ipc without socket", func(c *Config) { c.IPC.Enabled = true; c.IPC.SocketPath = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
version = 1

[input]
top_k = 3

[logging]
level = "debug"

[ipc]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Input.TopK)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.IPC.Enabled)
	// Unset sections keep their defaults.
	assert.Equal(t, 64, cfg.UI.QueueSize)
}

func TestLoadJSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"version":1,"input":{"top_k":2}}`), 0o644))
	cfg, err := NewLoader(jsonPath).Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Input.TopK)

	yamlPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("version: 1\ninput:\n  top_k: 4\n"), 0o644))
	cfg, err = NewLoader(yamlPath).Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Input.TopK)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := NewLoader(filepath.Join(t.TempDir(), "nope.toml")).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Input.TopK, cfg.Input.TopK)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 1\n[input]\ntop_k = 99\n"), 0o644))

	_, err := NewLoader(path).Load()
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SMARTINPUT_LOG_LEVEL", "debug")
	t.Setenv("SMARTINPUT_SOCKET", "/tmp/si-test.sock")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/si-test.sock", cfg.IPC.SocketPath)
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotNil(t, cfg)

	_, err = os.Stat(path)
	require.NoError(t, err)

	// A second call loads the file that was just written.
	cfg2, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, cfg.Input.TopK, cfg2.Input.TopK)
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 1\n[input]\ntop_k = 3\n"), 0o644))

	loader := NewLoader(path)
	_, err := loader.Load()
	require.NoError(t, err)
	defer loader.Close()

	changed := make(chan *Config, 1)
	loader.OnChange(func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})
	require.NoError(t, loader.Watch())

	require.NoError(t, os.WriteFile(path, []byte("version = 1\n[input]\ntop_k = 7\n"), 0o644))

	select {
	case cfg := <-changed:
		assert.Equal(t, 7, cfg.Input.TopK)
	case <-time.After(3 * time.Second):
		t.Fatal("config change was not observed")
	}
}

func TestLoggingSetup(t *testing.T) {
	cfg := DefaultConfig()
	lc, err := cfg.LoggingSetup()
	require.NoError(t, err)
	assert.Equal(t, "smartinput", lc.Component)

	cfg.Logging.Level = "bogus"
	_, err = cfg.LoggingSetup()
	assert.Error(t, err)
}
