package server

import (
	"net/http"

	"github.com/dstrand/go-auth-strategies/users"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())

	// Basic: credentials ride on every request, so there is no login or
	// logout, only guarded resources.
	s.registerBookRoutes(PrefixBasic, s.RequireBasicAuth())

	// Session: cookie-backed server-side sessions
	s.RegisterRouteFunc("POST "+PrefixSession+RouteLogin, s.apiRoute(s.SessionLoginHandler()))
	s.RegisterRouteFunc("POST "+PrefixSession+RouteLogout, s.apiRoute(s.SessionLogoutHandler()))
	s.registerBookRoutes(PrefixSession, s.RequireSession())

	// Token: opaque bearer tokens
	s.RegisterRouteFunc("POST "+PrefixToken+RouteLogin, s.apiRoute(s.TokenLoginHandler()))
	s.RegisterRouteFunc("POST "+PrefixToken+RouteLogout, s.apiRoute(s.TokenLogoutHandler()))
	s.registerBookRoutes(PrefixToken, s.RequireOpaqueToken())

	// JWT: self-contained access tokens plus revocable refresh tokens
	s.RegisterRouteFunc("POST "+PrefixJWT+RouteLogin, s.apiRoute(s.JWTLoginHandler()))
	s.RegisterRouteFunc("POST "+PrefixJWT+RouteRefresh, s.apiRoute(s.JWTRefreshHandler()))
	s.RegisterRouteFunc("POST "+PrefixJWT+RouteLogout, s.apiRoute(s.JWTLogoutHandler()))
	s.registerBookRoutes(PrefixJWT, s.RequireJWT())

	// SSO: OIDC redirect works, the rest is not implemented yet
	s.RegisterRouteFunc("GET "+RouteSSOLogin, s.apiRoute(s.SSOLoginHandler()))
	s.RegisterRouteFunc("GET "+RouteSSOCallback, s.apiRoute(s.SSOCallbackHandler()))
}

// registerBookRoutes mounts the shared book resource, plus a whoami
// endpoint, under a strategy prefix. Writes additionally require the
// admin role.
func (s *Server) registerBookRoutes(prefix string, authn func(http.HandlerFunc) http.HandlerFunc) {
	s.RegisterRouteFunc("GET "+prefix+RouteBooks, s.apiRoute(s.ListBooksHandler(), authn))
	s.RegisterRouteFunc("GET "+prefix+RouteBookByID, s.apiRoute(s.GetBookHandler(), authn))
	s.RegisterRouteFunc("POST "+prefix+RouteBooks, s.apiRoute(s.CreateBookHandler(), authn, s.RequireRoles(users.RoleAdmin)))
	s.RegisterRouteFunc("DELETE "+prefix+RouteBookByID, s.apiRoute(s.DeleteBookHandler(), authn, s.RequireRoles(users.RoleAdmin)))
	s.RegisterRouteFunc("GET "+prefix+RouteMe, s.apiRoute(s.MeHandler(), authn))
}

// apiRoute wraps a handler with the standard API middleware followed by
// any route-specific middleware (authentication, then authorization).
func (s *Server) apiRoute(handler http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chain := append(s.APIMiddleware(), mw...)
	return ChainMiddleware(handler, chain...)
}
