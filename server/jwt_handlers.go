package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/dstrand/go-auth-strategies/internal/errors"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// JWTLoginHandler verifies the credentials and returns an access/refresh
// token pair.
func (s *Server) JWTLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeLoginRequest(w, r)
		if !ok {
			return
		}

		pair, err := s.jwt.Login(req.Username, req.Password)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid credentials")
				return
			}
			log.Err(err).Msg("jwt login")
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, pair)
	}
}

// JWTRefreshHandler exchanges a live refresh token for a new access token.
func (s *Server) JWTRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
			writeError(w, http.StatusBadRequest, "bad_request", "refreshToken is required")
			return
		}

		accessToken, err := s.jwt.Refresh(req.RefreshToken)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrInvalidRefreshToken) {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid refresh token")
				return
			}
			log.Err(err).Msg("jwt refresh")
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": accessToken})
	}
}

// JWTLogoutHandler revokes the refresh token named in the body. The caller
// does not need a live access token to log out, and revoking an unknown
// token still succeeds.
func (s *Server) JWTLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}

		if err := s.jwt.Logout(req.RefreshToken); err != nil {
			log.Err(err).Msg("jwt logout")
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
	}
}
