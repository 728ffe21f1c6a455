package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHealthz = "/healthz"

	// Strategy group prefixes - each mounts the same book routes behind a
	// different authentication mechanism
	PrefixBasic   = "/basic"
	PrefixSession = "/session"
	PrefixToken   = "/token"
	PrefixJWT     = "/jwt"

	// Routes relative to a strategy prefix
	RouteLogin    = "/login"
	RouteLogout   = "/logout"
	RouteMe       = "/me"
	RouteRefresh  = "/refresh"
	RouteBooks    = "/books"
	RouteBookByID = "/books/{id}"

	// SSO Routes
	RouteSSOLogin    = "/sso/login"
	RouteSSOCallback = "/sso/callback"
)
