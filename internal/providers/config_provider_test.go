package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctd/internal/structures"
)

const configFixture = `
webServer:
  host: 127.0.0.1
  port: 8931
backend:
  baseUrl: http://localhost:9000
  timeout: 5s
timer:
  statePath: /var/lib/ctd/timer.json
  fetchTimeout: 5s
journal:
  filePath: /var/lib/ctd/journal.dat
  flushInterval: 1m
  maxEvents: 10000
logger:
  level: info
  mode: 420
  dir: /var/log/ctd
cache:
  enabled: true
  size: 16
  ttl: 30s
metrics:
  enabled: true
`

func writeConfigFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConfigProvider_LoadsConfig(t *testing.T) {
	viper.Reset()
	path := writeConfigFixture(t, configFixture)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "CaseTimerDaemon", conf.AppName)
	assert.True(t, conf.Debug)
	assert.Equal(t, path, conf.Path)
	assert.Equal(t, 8931, conf.WebServer.Port)
	assert.Equal(t, "http://localhost:9000", conf.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, conf.Backend.Timeout)
	assert.Equal(t, "/var/lib/ctd/timer.json", conf.Timer.StatePath)
	assert.Equal(t, time.Minute, conf.Journal.FlushInterval)
	assert.True(t, conf.Cache.Enabled)
	assert.Equal(t, 30*time.Second, conf.Cache.TTL)
	assert.True(t, conf.Metrics.Enabled)
}

func TestConfigProvider_MissingFile(t *testing.T) {
	viper.Reset()
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: "/nonexistent/config.yaml"})
	assert.Error(t, err)
}

func TestConfigProvider_InvalidConfigRejected(t *testing.T) {
	viper.Reset()
	path := writeConfigFixture(t, `
webServer:
  host: 127.0.0.1
  port: 8931
`)

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}

func TestConfigProvider_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("CTD_LOG_LEVEL", "debug")
	path := writeConfigFixture(t, configFixture)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "debug", conf.Logger.Level)
}
