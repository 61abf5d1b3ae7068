package config

type Config interface {
	EnvConfig
	AuthConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetPostgresDSN() string
	GetBrokerURL() string
}

type mainConfig struct {
	EnvVars
	Auth
	Security
}

func New() Config {
	return mainConfig{}
}
