package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads the yaml file", func(t *testing.T) {
		// Given: a config file selecting redis storage
		path := writeConfig(t, `
log-level: debug
http-port: "8080"
socket-port: "8081"
storage: redis
session-ttl: 30m
redis:
  host: cache
  port: "6380"
`)

		// When: loading it
		conf, err := Load(path)

		// Then: every value is taken from the file
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, "8081", conf.SocketPort)
		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, 30*time.Minute, conf.SessionTTL)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
	})

	t.Run("Missing file falls back to defaults", func(t *testing.T) {
		conf, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, time.Hour, conf.SessionTTL)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "http-port: \"8080\"\n")
		t.Setenv("HTTP_PORT", "7070")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
	})

	t.Run("Unknown log level is rejected", func(t *testing.T) {
		// Given: a typo in the log level
		path := writeConfig(t, "log-level: verbose\n")

		// When: loading it
		_, err := Load(path)

		// Then: the typo is reported
		require.ErrorIs(t, err, ErrUnknownLogLevel)
		assert.Contains(t, err.Error(), "verbose")
	})

	t.Run("Unknown storage is rejected", func(t *testing.T) {
		path := writeConfig(t, "storage: sqlite\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrUnknownStorage)
	})
}
