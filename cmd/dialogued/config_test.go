package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dialogued.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
broker: tcp://broker.local:1883
siteIds: [kitchen, office]
wakewordIds: [porcupine]
logLevel: debug
`), 0o644))

	cfg := defaultConfig()
	require.NoError(t, cfg.loadFile(path))

	assert.Equal(t, "tcp://broker.local:1883", cfg.Broker)
	assert.Equal(t, []string{"kitchen", "office"}, cfg.SiteIDs)
	assert.Equal(t, []string{"porcupine"}, cfg.WakewordIDs)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched keys keep their defaults.
	assert.Equal(t, "rhasspy-dialogue", cfg.ClientID)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestConfig_FlagsOverrideFile(t *testing.T) {
	cfg := defaultConfig()

	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Set("broker", "tcp://other:1883"))
	require.NoError(t, cmd.Flags().Set("site-id", "bedroom"))
	cfg.applyFlags(cmd)

	assert.Equal(t, "tcp://other:1883", cfg.Broker)
	assert.Equal(t, []string{"bedroom"}, cfg.SiteIDs)
	assert.Equal(t, []string{"default"}, cfg.WakewordIDs, "unset flags leave config alone")
}

func TestConfig_LoadFileMissing(t *testing.T) {
	cfg := defaultConfig()
	assert.Error(t, cfg.loadFile(filepath.Join(t.TempDir(), "absent.yml")))
}
