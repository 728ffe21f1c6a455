package server

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dstrand/go-auth-strategies/auth"
	apperrors "github.com/dstrand/go-auth-strategies/internal/errors"
	"github.com/dstrand/go-auth-strategies/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyIdentity stores the authenticated caller's identity
const ContextKeyIdentity ContextKey = "identity"

func withIdentity(r *http.Request, identity auth.Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextKeyIdentity, identity))
}

func identityFromRequest(r *http.Request) (auth.Identity, bool) {
	identity, ok := r.Context().Value(ContextKeyIdentity).(auth.Identity)
	return identity, ok
}

// bearerToken extracts the token from a "Bearer <token>" Authorization
// header, or returns "" if the header is missing or uses another scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireBasicAuth validates the Authorization header on every request.
// When no credentials are presented the 401 carries a WWW-Authenticate
// challenge so browsers know to prompt.
func (s *Server) RequireBasicAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, err := s.basicAuth.Authenticate(r)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrNoCredentials) {
					w.Header().Set("WWW-Authenticate", s.basicAuth.Challenge())
					writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
					return
				}
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid credentials")
				return
			}
			next(w, withIdentity(r, identity))
		}
	}
}

// RequireSession resolves the session cookie to an identity. Missing,
// unknown and expired sessions all look the same to the client; a store
// fault is not an authentication failure and surfaces as a 500.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if cookie, err := r.Cookie(s.config.GetSessionCookieName()); err == nil {
				sessionID = cookie.Value
			}

			identity, err := s.sessions.Resolve(sessionID)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrNoCredentials) || apperrors.Is(err, apperrors.ErrSessionNotFound) {
					writeError(w, http.StatusUnauthorized, "unauthenticated", "not logged in")
					return
				}
				log.Err(err).Msg("resolving session")
				writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
				return
			}
			next(w, withIdentity(r, identity))
		}
	}
}

// RequireOpaqueToken resolves a Bearer token via the user directory.
func (s *Server) RequireOpaqueToken() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
				return
			}

			identity, err := s.opaqueTokens.Resolve(token)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrNoCredentials) || apperrors.Is(err, apperrors.ErrInvalidToken) {
					writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
					return
				}
				log.Err(err).Msg("resolving token")
				writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
				return
			}
			next(w, withIdentity(r, identity))
		}
	}
}

// RequireJWT verifies a Bearer access token. Expiry gets its own message:
// it is the one failure the client can fix with a refresh call instead of
// a fresh login.
func (s *Server) RequireJWT() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
				return
			}

			identity, err := s.jwt.VerifyAccessToken(token)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrTokenExpired) {
					writeError(w, http.StatusUnauthorized, "unauthenticated", "access token expired, obtain a new one via refresh")
					return
				}
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
				return
			}
			next(w, withIdentity(r, identity))
		}
	}
}

// RequireRoles gates a route on the authenticated identity's role.
// Must be chained after one of the authentication middlewares.
func (s *Server) RequireRoles(roles ...users.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFromRequest(r)
			if !ok {
				// Reachable only if the route was wired without an
				// authentication middleware.
				writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
				return
			}
			if !slices.Contains(roles, identity.Role) {
				writeError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next(w, r)
		}
	}
}
