package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/dstrand/go-auth-strategies/auth"
	"github.com/dstrand/go-auth-strategies/auth/basicauth"
	"github.com/dstrand/go-auth-strategies/auth/opaquetoken"
	"github.com/dstrand/go-auth-strategies/auth/session"
	"github.com/dstrand/go-auth-strategies/books"
	"github.com/dstrand/go-auth-strategies/internal/config"
	"github.com/dstrand/go-auth-strategies/sso"
	"github.com/dstrand/go-auth-strategies/token"
	"github.com/dstrand/go-auth-strategies/users"
)

// Stores holds every injectable backing store. The server never assumes a
// concrete implementation; tests and main wire in whatever they need.
type Stores struct {
	Users         users.Repo
	Books         books.Repo
	Sessions      session.Store
	RefreshTokens token.RefreshTokenRepo
}

type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config
	stores Stores

	basicAuth    *basicauth.Authenticator
	sessions     *session.Manager
	opaqueTokens *opaquetoken.Manager
	jwt          *token.Manager
	sso          *sso.Service
}

func New(config config.Config, stores Stores) (*Server, error) {
	if stores.Users == nil || stores.Books == nil || stores.Sessions == nil || stores.RefreshTokens == nil {
		return nil, fmt.Errorf("[Server New] all stores must be provided")
	}

	verifier := auth.NewVerifier(stores.Users)

	s := &Server{
		mux:          http.NewServeMux(),
		config:       config,
		stores:       stores,
		basicAuth:    basicauth.New(verifier, config.GetBasicRealm()),
		sessions:     session.NewManager(verifier, stores.Sessions, config.GetSessionLifetime()),
		opaqueTokens: opaquetoken.NewManager(verifier, stores.Users),
		jwt: token.NewManager(verifier, stores.Users, stores.RefreshTokens, config.GetJWTSecret(),
			token.WithAccessExpiry(config.GetAccessTokenExpiry()),
			token.WithRefreshExpiry(config.GetRefreshTokenExpiry())),
		sso: sso.New(config),
	}
	s.env = config.GetEnv()

	// Bootstrap: ensure the demo accounts exist
	if err := s.InitialiseSystem(); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
