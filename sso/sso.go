// Package sso holds the OpenID Connect plumbing for a future SSO strategy.
// Discovery and the authorization-code redirect work against a real
// provider; exchanging the code for an identity is not implemented yet.
package sso

import (
	"context"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/dstrand/go-auth-strategies/internal/config"
)

const callbackPath = "/sso/callback"

type Service struct {
	cfg config.Config

	mu       sync.Mutex
	oauthCfg *oauth2.Config
}

func New(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

// Configured reports whether an identity provider has been set up.
// Without one the SSO endpoints have nothing to redirect to.
func (s *Service) Configured() bool {
	return s.cfg.GetSSOIssuerURL() != "" && s.cfg.GetSSOClientID() != ""
}

// AuthCodeURL runs OIDC discovery against the configured issuer and returns
// the provider URL to redirect the browser to. Discovery happens on first
// use and is cached for the life of the process.
func (s *Service) AuthCodeURL(ctx context.Context, state string) (string, error) {
	oauthCfg, err := s.oauthConfig(ctx)
	if err != nil {
		return "", err
	}
	return oauthCfg.AuthCodeURL(state), nil
}

func (s *Service) oauthConfig(ctx context.Context) (*oauth2.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.oauthCfg != nil {
		return s.oauthCfg, nil
	}

	provider, err := oidc.NewProvider(ctx, s.cfg.GetSSOIssuerURL())
	if err != nil {
		return nil, errors.Wrap(err, "[oauthConfig] provider discovery")
	}
	s.oauthCfg = &oauth2.Config{
		ClientID:     s.cfg.GetSSOClientID(),
		ClientSecret: s.cfg.GetSSOClientSecret(),
		Endpoint:     provider.Endpoint(),
		RedirectURL:  s.cfg.GetBaseURL() + callbackPath,
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	return s.oauthCfg, nil
}
