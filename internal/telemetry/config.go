package telemetry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ConfigFromEnv. Command-line flags override them.
const (
	EnvEndpoint    = "CARDVAULT_OTEL_ENDPOINT"
	EnvInsecure    = "CARDVAULT_OTEL_INSECURE"
	EnvService     = "CARDVAULT_OTEL_SERVICE"
	EnvDialTimeout = "CARDVAULT_OTEL_DIAL_TIMEOUT"
	EnvHeaders     = "CARDVAULT_OTEL_HEADERS"
)

const defaultServiceName = "cardvault"

// Config describes the OTLP gRPC exporter. An empty endpoint disables tracing.
type Config struct {
	Endpoint    string
	Insecure    bool
	ServiceName string
	Version     string
	DialTimeout time.Duration
	Headers     map[string]string
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

func (c Config) serviceName() string {
	if name := strings.TrimSpace(c.ServiceName); name != "" {
		return name
	}
	return defaultServiceName
}

// ConfigFromEnv reads the exporter settings through getenv. Malformed
// optional values leave the field at its zero value.
func ConfigFromEnv(getenv func(string) string) Config {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := Config{Endpoint: get(EnvEndpoint), ServiceName: get(EnvService)}
	cfg.ServiceName = cfg.serviceName()
	cfg.Insecure, _ = strconv.ParseBool(get(EnvInsecure))
	if d, err := time.ParseDuration(get(EnvDialTimeout)); err == nil && d > 0 {
		cfg.DialTimeout = d
	}
	cfg.Headers, _ = ParseHeaders(get(EnvHeaders))
	return cfg
}

// ParseHeaders reads "key=value" pairs separated by commas. Blank input
// yields nil.
func ParseHeaders(raw string) (map[string]string, error) {
	var out map[string]string
	for _, pair := range strings.Split(raw, ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if key = strings.TrimSpace(key); !ok || key == "" {
			return nil, fmt.Errorf("header %q: want key=value", strings.TrimSpace(pair))
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}
