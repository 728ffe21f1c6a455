package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/dstrand/go-auth-strategies/internal/errors"
)

// TokenLoginHandler verifies the credentials and issues a fresh opaque
// bearer token. Tokens from earlier logins stay valid.
func (s *Server) TokenLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeLoginRequest(w, r)
		if !ok {
			return
		}

		token, err := s.opaqueTokens.Login(req.Username, req.Password)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid credentials")
				return
			}
			log.Err(err).Msg("token login")
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

// TokenLogoutHandler revokes the presented bearer token. Revoking a token
// that is already gone still succeeds, so logout can be retried safely.
func (s *Server) TokenLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.opaqueTokens.Logout(bearerToken(r)); err != nil {
			log.Err(err).Msg("token logout")
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
	}
}
