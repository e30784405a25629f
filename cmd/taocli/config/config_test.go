package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
endpoint: ws://127.0.0.1:9944
netuid: 19
coldkey: 5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY
logFile: /tmp/taocli.log
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "ws://127.0.0.1:9944", cfg.Endpoint)
		assert.Equal(t, uint16(19), cfg.Netuid)
		assert.Equal(t, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", cfg.Coldkey)
		assert.Equal(t, "/tmp/taocli.log", cfg.LogFile)
	})

	t.Run("defaults apply when fields are omitted", func(t *testing.T) {
		path := writeConfig(t, "endpoint: ws://localhost:9944\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Zero(t, cfg.Netuid)
		assert.Empty(t, cfg.Coldkey)
		assert.Empty(t, cfg.LogFile)
	})

	t.Run("missing endpoint is rejected", func(t *testing.T) {
		path := writeConfig(t, "netuid: 3\n")
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "endpoint is required")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "endpoint: [unbalanced\n")
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "failed to parse config file")
	})
}
