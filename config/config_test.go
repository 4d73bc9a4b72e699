package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "notified-launches.json", cfg.CachePath)
	assert.Equal(t, "https://fdo.rocketlaunch.live/json/launches/next/5", cfg.LaunchesURL)
	assert.Equal(t, BackendPushover, cfg.NotifyBackend)
	assert.Equal(t, DriverFile, cfg.StoreDriver)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 1.0, cfg.NotifyRate)
	assert.Equal(t, "*/5 * * * *", cfg.Schedule)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PUSHOVER_API_TOKEN", "token")
	t.Setenv("PUSHOVER_GROUP_KEY", "group")
	t.Setenv("CACHE_PATH", "/var/lib/launches.json")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("STORE_DRIVER", "SQLite")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.PushoverAPIToken)
	assert.Equal(t, "/var/lib/launches.json", cfg.CachePath)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notifier.yaml")
	require.NoError(t, os.WriteFile(file, []byte("notify_backend: ntfy\nntfy_topic: launches\n"), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, BackendNtfy, cfg.NotifyBackend)
	assert.Equal(t, "launches", cfg.NtfyTopic)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestRecipientFallsBackToGroup(t *testing.T) {
	cfg := &Config{PushoverGroupKey: "group"}
	assert.Equal(t, "group", cfg.Recipient())

	cfg.PushoverUserKey = "user"
	assert.Equal(t, "user", cfg.Recipient())
}

func TestValidate(t *testing.T) {
	valid := Config{
		PushoverAPIToken: "token",
		PushoverUserKey:  "user",
		CachePath:        "notified-launches.json",
		NotifyBackend:    BackendPushover,
		NotifyRate:       1,
		StoreDriver:      DriverFile,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing token", func(c *Config) { c.PushoverAPIToken = "" }},
		{"missing recipient", func(c *Config) { c.PushoverUserKey = "" }},
		{"ntfy without topic", func(c *Config) { c.NotifyBackend = BackendNtfy }},
		{"unknown backend", func(c *Config) { c.NotifyBackend = "sms" }},
		{"unknown driver", func(c *Config) { c.StoreDriver = "postgres" }},
		{"redis without addr", func(c *Config) { c.StoreDriver = DriverRedis }},
		{"zero rate", func(c *Config) { c.NotifyRate = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
