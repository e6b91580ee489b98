package types

import (
	"fmt"
	"os"
	"strconv"

	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
)

// LogLevel is the recognized LOG_LEVEL enum from spec.md §6.
type LogLevel string

const (
	LogLevelDebug    LogLevel = "DEBUG"
	LogLevelInfo     LogLevel = "INFO"
	LogLevelWarning  LogLevel = "WARNING"
	LogLevelError    LogLevel = "ERROR"
	LogLevelCritical LogLevel = "CRITICAL"
)

// Environment is the recognized ENVIRONMENT enum from spec.md §6.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)

// Config is the process configuration loaded from the environment at
// startup, per spec.md §6.
type Config struct {
	BrokerHost  string
	BrokerPort  int
	BrokerUser  string
	BrokerPass  string
	BrokerVHost string

	KVHost     string
	KVPort     int
	KVPassword string
	KVDB       int

	LogLevel    LogLevel
	Environment Environment

	TraceEndpoint string
}

// LoadConfig reads and validates the environment variables of spec.md §6.
// Invalid values fail fast with a typed *chimeraerrors.Error — "Invalid
// values fail fast at startup with a typed validation error."
func LoadConfig() (*Config, error) {
	cfg := &Config{
		BrokerHost:    getEnvDefault("BROKER_HOST", "localhost"),
		BrokerUser:    getEnvDefault("BROKER_USER", "guest"),
		BrokerPass:    getEnvDefault("BROKER_PASS", "guest"),
		BrokerVHost:   getEnvDefault("BROKER_VHOST", "/"),
		KVHost:        getEnvDefault("KV_HOST", "localhost"),
		KVPassword:    os.Getenv("KV_PASSWORD"),
		LogLevel:      LogLevel(getEnvDefault("LOG_LEVEL", string(LogLevelInfo))),
		Environment:   Environment(getEnvDefault("ENVIRONMENT", string(EnvironmentDevelopment))),
		TraceEndpoint: os.Getenv("TRACE_ENDPOINT"),
	}

	brokerPort, err := parseIntEnv("BROKER_PORT", 5672)
	if err != nil {
		return nil, err
	}
	cfg.BrokerPort = brokerPort

	kvPort, err := parseIntEnv("KV_PORT", 6379)
	if err != nil {
		return nil, err
	}
	cfg.KVPort = kvPort

	kvDB, err := parseIntEnv("KV_DB", 0)
	if err != nil {
		return nil, err
	}
	if kvDB < 0 || kvDB > 15 {
		return nil, configError("KV_DB", fmt.Sprintf("must be 0-15, got %d", kvDB))
	}
	cfg.KVDB = kvDB

	if !validLogLevel(cfg.LogLevel) {
		return nil, configError("LOG_LEVEL", fmt.Sprintf("unrecognized level %q", cfg.LogLevel))
	}
	if !validEnvironment(cfg.Environment) {
		return nil, configError("ENVIRONMENT", fmt.Sprintf("unrecognized environment %q", cfg.Environment))
	}

	return cfg, nil
}

func validLogLevel(l LogLevel) bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError, LogLevelCritical:
		return true
	}
	return false
}

func validEnvironment(e Environment) bool {
	switch e {
	case EnvironmentDevelopment, EnvironmentStaging, EnvironmentProduction:
		return true
	}
	return false
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, configError(key, fmt.Sprintf("must be an integer, got %q", v))
	}
	return n, nil
}

func configError(field, detail string) *chimeraerrors.Error {
	return chimeraerrors.New(chimeraerrors.KindUser, "config.invalid", fmt.Sprintf("%s: %s", field, detail)).
		WithDetails(map[string]any{"field": field}).
		WithSuggestedAction("set a valid value and restart")
}
