package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the gateway.
type Config struct {
	HTTPPort  string
	TLS       TLSConfig
	Auth      AuthConfig
	Registry  RegistryConfig
	Secrets   SecretsConfig
	Upstream  UpstreamConfig
	Telemetry TelemetryConfig
}

// TLSConfig holds the serving certificate pair. Both paths must be set to
// enable TLS; an empty pair selects plain HTTP.
type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// AuthConfig holds caller authentication settings.
type AuthConfig struct {
	KeyPath string // file holding the shared gateway key
}

// RegistryConfig holds provider registry settings.
type RegistryConfig struct {
	Path  string // registry document (YAML or JSON)
	Watch bool   // reload the registry when the file changes
}

// SecretsConfig holds credential resolution settings.
type SecretsConfig struct {
	Dir string // base directory for relative credential references
}

// UpstreamConfig holds outbound provider call settings.
type UpstreamConfig struct {
	Timeout time.Duration
}

// TelemetryConfig holds tracing and metrics settings.
type TelemetryConfig struct {
	ServiceName    string
	TracesEnabled  bool
	OTLPEndpoint   string // gRPC collector address; empty selects stdout export
	MetricsEnabled bool
}

func getEnvBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	keyPath := os.Getenv("GATEWAY_KEY_PATH")
	if keyPath == "" {
		return nil, fmt.Errorf("GATEWAY_KEY_PATH is required")
	}
	registryPath := os.Getenv("REGISTRY_PATH")
	if registryPath == "" {
		return nil, fmt.Errorf("REGISTRY_PATH is required")
	}

	certFile := getEnvString("TLS_CERT_FILE", "")
	keyFile := getEnvString("TLS_KEY_FILE", "")
	if (certFile == "") != (keyFile == "") {
		return nil, fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	cfg := &Config{
		HTTPPort: getEnvString("HTTP_PORT", "8080"),
		TLS: TLSConfig{
			CertFile: certFile,
			KeyFile:  keyFile,
		},
		Auth: AuthConfig{
			KeyPath: keyPath,
		},
		Registry: RegistryConfig{
			Path:  registryPath,
			Watch: getEnvBool("WATCH_REGISTRY", true),
		},
		Secrets: SecretsConfig{
			Dir: getEnvString("SECRETS_DIR", "."),
		},
		Upstream: UpstreamConfig{
			Timeout: getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		},
		Telemetry: TelemetryConfig{
			ServiceName:    getEnvString("OTEL_SERVICE_NAME", "vanity-gateway"),
			TracesEnabled:  getEnvBool("OTEL_TRACES_ENABLED", false),
			OTLPEndpoint:   getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		},
	}

	return cfg, nil
}
