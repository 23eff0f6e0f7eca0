package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/platinummonkey/pinion/pkg/observability"
	"github.com/platinummonkey/pinion/pkg/resolver"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Registry configuration
	Registry RegistryConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// RegistryConfig holds plugin registry and resolver settings
type RegistryConfig struct {
	// PluginDir is the directory tree scanned for *.plugin.yaml and
	// *.fragment.yaml manifests.
	PluginDir string

	// TrimPlugins removes disabled descriptors after resolution.
	TrimPlugins bool

	// CrossLink links extensions to extension points after resolution.
	CrossLink bool

	// DebugOptions are passed to the resolver verbatim.
	DebugOptions map[string]string

	// SweepSchedule holds a cron spec for a periodic re-resolve sweep. The
	// server binary does not read it; pinion-watch takes its schedule from
	// its -schedule flag.
	SweepSchedule string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Registry:      loadRegistryConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("PINION_HOST", "0.0.0.0"),
		Port:            getEnv("PINION_PORT", "8080"),
		ReadTimeout:     getEnvDuration("PINION_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("PINION_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("PINION_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("PINION_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("PINION_HEALTH_PORT", "9090"),
	}
}

// loadRegistryConfig loads registry and resolver configuration from environment
func loadRegistryConfig() RegistryConfig {
	cfg := RegistryConfig{
		PluginDir:     getEnv("PINION_PLUGIN_DIR", "/var/pinion/plugins"),
		TrimPlugins:   getEnvBool("PINION_TRIM_PLUGINS", true),
		CrossLink:     getEnvBool("PINION_CROSS_LINK", true),
		DebugOptions:  map[string]string{},
		SweepSchedule: getEnv("PINION_SWEEP_SCHEDULE", "@every 5m"),
	}
	if getEnvBool("PINION_DEBUG_RESOLVE", false) {
		cfg.DebugOptions[resolver.OptionDebugResolve] = "true"
	}
	return cfg
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("PINION_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("PINION_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Registry.PluginDir == "" {
		return fmt.Errorf("plugin directory is required")
	}
	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
