package config

type Config interface {
	EnvConfig
	SecurityConfig
	TokenConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
	GetSSOIssuerURL() string
	GetSSOClientID() string
	GetSSOClientSecret() string
}

type mainConfig struct {
	EnvVars
	Security
	Tokens
}

func New() Config {
	return mainConfig{}
}
