package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/dstrand/go-auth-strategies/internal/errors"
)

// SessionLoginHandler verifies the credentials and sets the session cookie.
// Any session ID the request arrived with is destroyed and replaced, never
// upgraded.
func (s *Server) SessionLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeLoginRequest(w, r)
		if !ok {
			return
		}

		var presentedID string
		if cookie, err := r.Cookie(s.config.GetSessionCookieName()); err == nil {
			presentedID = cookie.Value
		}

		created, err := s.sessions.Login(presentedID, req.Username, req.Password)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid credentials")
				return
			}
			log.Err(err).Msg("session login")
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     s.config.GetSessionCookieName(),
			Value:    created.ID,
			Path:     "/",
			MaxAge:   int(s.sessions.Lifetime().Seconds()),
			HttpOnly: true,
			Secure:   getScheme(r) == "https",
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, created.Identity)
	}
}

// SessionLogoutHandler destroys the server-side session and expires the
// cookie. Logging out without a live session still succeeds.
func (s *Server) SessionLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(s.config.GetSessionCookieName()); err == nil {
			if err := s.sessions.Logout(cookie.Value); err != nil {
				log.Err(err).Msg("session logout")
				writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
				return
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     s.config.GetSessionCookieName(),
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   getScheme(r) == "https",
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
	}
}
