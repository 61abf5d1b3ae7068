package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	postgresVar   = "POSTGRES_DSN"
	brokerURLVar  = "BROKER_URL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "VoltGrid Auth")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetPostgresDSN returns the identity/token store DSN. Empty means the
// in-memory fakes are used, which keeps local development self-contained.
func (EnvVars) GetPostgresDSN() string {
	return GetEnv(postgresVar, "")
}

// GetBrokerURL returns the MQTT broker for station-command dispatch events.
// Empty disables event emission.
func (EnvVars) GetBrokerURL() string {
	return GetEnv(brokerURLVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
