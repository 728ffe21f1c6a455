package config

import "time"

const jwtSecretVar = "JWT_SECRET" //nolint:gosec // env var name, not a credential

type TokenConfig interface {
	GetJWTSecret() []byte
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type Tokens struct{}

var _ TokenConfig = Tokens{}

func (Tokens) GetJWTSecret() []byte {
	return []byte(GetEnv(jwtSecretVar, "dev-signing-secret-change-me"))
}

func (Tokens) GetAccessTokenExpiry() time.Duration {
	return 15 * time.Minute
}

func (Tokens) GetRefreshTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour
}
