package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	baseURLVar    = "BASE_URL"
	ssoIssuerVar  = "SSO_ISSUER_URL"
	ssoClientVar  = "SSO_CLIENT_ID"
	ssoSecretVar  = "SSO_CLIENT_SECRET"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Auth Strategies")
}

// GetBaseURL returns the base URL for the server (e.g., "https://auth.example.com")
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func (EnvVars) GetSSOIssuerURL() string {
	return GetEnv(ssoIssuerVar, "")
}

func (EnvVars) GetSSOClientID() string {
	return GetEnv(ssoClientVar, "")
}

func (EnvVars) GetSSOClientSecret() string {
	return GetEnv(ssoSecretVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
