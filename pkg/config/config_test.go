package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/pinion/pkg/observability"
	"github.com/platinummonkey/pinion/pkg/resolver"
)

// TestLoadConfig_Defaults tests the default configuration
func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)

	assert.Equal(t, "/var/pinion/plugins", cfg.Registry.PluginDir)
	assert.True(t, cfg.Registry.TrimPlugins)
	assert.True(t, cfg.Registry.CrossLink)
	assert.Empty(t, cfg.Registry.DebugOptions)
	assert.Equal(t, "@every 5m", cfg.Registry.SweepSchedule)

	assert.Equal(t, observability.InfoLevel, cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
}

// TestLoadConfig_Overrides tests environment overrides
func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PINION_PORT", "8888")
	t.Setenv("PINION_PLUGIN_DIR", "/tmp/plugins")
	t.Setenv("PINION_TRIM_PLUGINS", "false")
	t.Setenv("PINION_DEBUG_RESOLVE", "true")
	t.Setenv("PINION_LOG_LEVEL", "debug")
	t.Setenv("PINION_READ_TIMEOUT", "45s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8888", cfg.Server.Port)
	assert.Equal(t, "/tmp/plugins", cfg.Registry.PluginDir)
	assert.False(t, cfg.Registry.TrimPlugins)
	assert.Equal(t, "true", cfg.Registry.DebugOptions[resolver.OptionDebugResolve])
	assert.Equal(t, observability.DebugLevel, cfg.Observability.LogLevel)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
}

// TestLoadConfig_PortClash tests validation of conflicting ports
func TestLoadConfig_PortClash(t *testing.T) {
	t.Setenv("PINION_PORT", "8080")
	t.Setenv("PINION_HEALTH_PORT", "8080")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be different")
}

// TestParseLogLevel tests log level parsing including the fallback
func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, observability.DebugLevel, parseLogLevel("DEBUG"))
	assert.Equal(t, observability.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, observability.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, observability.InfoLevel, parseLogLevel("garbage"))
}
