package config

import "time"

type SecurityConfig interface {
	GetBasicRealm() string
	GetSessionCookieName() string
	GetSessionLifetime() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetBasicRealm() string {
	return "books"
}

func (Security) GetSessionCookieName() string {
	return "session_id"
}

func (Security) GetSessionLifetime() time.Duration {
	return 30 * time.Minute // Sessions expire after 30 minutes
}
