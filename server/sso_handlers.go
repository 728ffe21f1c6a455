package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SSOLoginHandler starts the OIDC authorization-code flow. Without a
// configured provider there is nowhere to send the browser, so the
// endpoint reports itself unimplemented.
func (s *Server) SSOLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.sso.Configured() {
			writeError(w, http.StatusNotImplemented, "not_implemented", "SSO login is not configured; set SSO_ISSUER_URL and SSO_CLIENT_ID")
			return
		}

		url, err := s.sso.AuthCodeURL(r.Context(), uuid.NewString())
		if err != nil {
			log.Err(err).Msg("sso provider discovery")
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
	}
}

// SSOCallbackHandler is where the provider redirects back to. Exchanging
// the authorization code for an identity is not implemented.
func (s *Server) SSOCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotImplemented, "not_implemented", "SSO callback handling is not implemented")
	}
}
