package server_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dstrand/go-auth-strategies/auth"
	"github.com/dstrand/go-auth-strategies/auth/session"
	"github.com/dstrand/go-auth-strategies/books"
	"github.com/dstrand/go-auth-strategies/internal/config"
	"github.com/dstrand/go-auth-strategies/server"
	"github.com/dstrand/go-auth-strategies/token"
	"github.com/dstrand/go-auth-strategies/users"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	srv, err := server.New(config.New(), server.Stores{
		Users:         users.NewInMemoryRepo(),
		Books:         books.NewSeededRepo(),
		Sessions:      session.NewInMemoryStore(),
		RefreshTokens: token.NewInMemoryRefreshTokenRepo(),
	})
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *server.Server, method, path string, body any, modify ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	for _, m := range modify {
		m(r)
	}

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withBasic(username, password string) func(*http.Request) {
	return func(r *http.Request) {
		r.SetBasicAuth(username, password)
	}
}

func withCookie(name, value string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBasicChallenge(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/basic/books", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, `Basic realm="books"`, w.Header().Get("WWW-Authenticate"))

	// Wrong credentials also get a 401, but no challenge: credentials
	// were presented, they were just wrong.
	w = doJSON(t, srv, http.MethodGet, "/basic/books", nil, withBasic("alice", "wrong"))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, w.Header().Get("WWW-Authenticate"))
}

func TestBasicBookAccess(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/basic/books", nil, withBasic("alice", "password123"))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody[[]books.Book](t, w), 5)

	w = doJSON(t, srv, http.MethodGet, "/basic/books/1", nil, withBasic("alice", "password123"))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, decodeBody[books.Book](t, w).ID)

	w = doJSON(t, srv, http.MethodGet, "/basic/books/99", nil, withBasic("alice", "password123"))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/basic/books/abc", nil, withBasic("alice", "password123"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/basic/me", nil, withBasic("alice", "password123"))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "alice", decodeBody[auth.Identity](t, w).Username)
}

func TestBasicAdminWrites(t *testing.T) {
	srv := newTestServer(t)
	newBook := map[string]string{"title": "Dune", "author": "Frank Herbert", "genre": "Science Fiction"}

	// A plain user can read but not write.
	w := doJSON(t, srv, http.MethodPost, "/basic/books", newBook, withBasic("alice", "password123"))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/basic/books", newBook, withBasic("admin", "admin-secret"))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 6, decodeBody[books.Book](t, w).ID)

	// Incomplete payloads are rejected before touching the store.
	w = doJSON(t, srv, http.MethodPost, "/basic/books", map[string]string{"title": "No Author"}, withBasic("admin", "admin-secret"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodDelete, "/basic/books/6", nil, withBasic("alice", "password123"))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, srv, http.MethodDelete, "/basic/books/6", nil, withBasic("admin", "admin-secret"))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/basic/books/6", nil, withBasic("alice", "password123"))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "session_id" {
			return cookie
		}
	}
	t.Fatal("no session_id cookie in response")
	return nil
}

func TestSessionLoginFlow(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/session/login", map[string]string{"username": "alice", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/session/login", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/session/login", map[string]string{"username": "alice", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	w = doJSON(t, srv, http.MethodGet, "/session/books", nil, withCookie("session_id", cookie.Value))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody[[]books.Book](t, w), 5)

	w = doJSON(t, srv, http.MethodGet, "/session/me", nil, withCookie("session_id", cookie.Value))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "alice", decodeBody[auth.Identity](t, w).Username)

	// No cookie, no access.
	w = doJSON(t, srv, http.MethodGet, "/session/books", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

// Logging in while presenting a session ID must replace that ID, never
// promote it.
func TestSessionLoginRotatesCookie(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/session/login",
		map[string]string{"username": "alice", "password": "password123"},
		withCookie("session_id", "planted-before-login"))
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w)
	require.NotEqual(t, "planted-before-login", cookie.Value)

	w = doJSON(t, srv, http.MethodGet, "/session/books", nil, withCookie("session_id", "planted-before-login"))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionLogout(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/session/login", map[string]string{"username": "alice", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = doJSON(t, srv, http.MethodPost, "/session/logout", nil, withCookie("session_id", cookie.Value))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, -1, sessionCookie(t, w).MaxAge)

	w = doJSON(t, srv, http.MethodGet, "/session/books", nil, withCookie("session_id", cookie.Value))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Logging out again, or with no cookie at all, still succeeds.
	w = doJSON(t, srv, http.MethodPost, "/session/logout", nil, withCookie("session_id", cookie.Value))
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, srv, http.MethodPost, "/session/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func tokenLogin(t *testing.T, srv *server.Server, username, password string) string {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/token/login", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code)
	return decodeBody[map[string]string](t, w)["token"]
}

func TestOpaqueTokenFlow(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/token/books", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	tok := tokenLogin(t, srv, "alice", "password123")

	w = doJSON(t, srv, http.MethodGet, "/token/books", nil, withBearer(tok))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody[[]books.Book](t, w), 5)

	w = doJSON(t, srv, http.MethodGet, "/token/books", nil, withBearer("never-issued"))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOpaqueTokenMultiDevice(t *testing.T) {
	srv := newTestServer(t)

	laptop := tokenLogin(t, srv, "alice", "password123")
	phone := tokenLogin(t, srv, "alice", "password123")
	require.NotEqual(t, laptop, phone)

	// Logging out the laptop leaves the phone logged in.
	w := doJSON(t, srv, http.MethodPost, "/token/logout", nil, withBearer(laptop))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/token/books", nil, withBearer(laptop))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/token/me", nil, withBearer(phone))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "alice", decodeBody[auth.Identity](t, w).Username)

	// Logout is idempotent.
	w = doJSON(t, srv, http.MethodPost, "/token/logout", nil, withBearer(laptop))
	require.Equal(t, http.StatusOK, w.Code)
}

func jwtLogin(t *testing.T, srv *server.Server, username, password string) token.Pair {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/jwt/login", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code)
	return decodeBody[token.Pair](t, w)
}

func TestJWTFlow(t *testing.T) {
	srv := newTestServer(t)
	newBook := map[string]string{"title": "Dune", "author": "Frank Herbert", "genre": "Science Fiction"}

	pair := jwtLogin(t, srv, "admin", "admin-secret")

	w := doJSON(t, srv, http.MethodPost, "/jwt/books", newBook, withBearer(pair.AccessToken))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 6, decodeBody[books.Book](t, w).ID)

	// Role claims travel inside the token: bob's says "user".
	bobPair := jwtLogin(t, srv, "bob", "letmein")
	w = doJSON(t, srv, http.MethodPost, "/jwt/books", newBook, withBearer(bobPair.AccessToken))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/jwt/me", nil, withBearer(bobPair.AccessToken))
	require.Equal(t, http.StatusOK, w.Code)
	identity := decodeBody[auth.Identity](t, w)
	require.Equal(t, "bob", identity.Username)
	require.Equal(t, users.RoleUser, identity.Role)

	w = doJSON(t, srv, http.MethodGet, "/jwt/books", nil, withBearer("not-a-jwt"))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTRefreshAndLogout(t *testing.T) {
	srv := newTestServer(t)

	pair := jwtLogin(t, srv, "alice", "password123")

	w := doJSON(t, srv, http.MethodPost, "/jwt/refresh", map[string]string{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	accessToken := decodeBody[map[string]string](t, w)["accessToken"]

	w = doJSON(t, srv, http.MethodGet, "/jwt/books", nil, withBearer(accessToken))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/jwt/refresh", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/jwt/logout", map[string]string{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)

	// The revoked refresh token can no longer mint access tokens.
	w = doJSON(t, srv, http.MethodPost, "/jwt/refresh", map[string]string{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Logging out twice is fine.
	w = doJSON(t, srv, http.MethodPost, "/jwt/logout", map[string]string{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
}

// brokenSessionStore accepts writes but fails every read.
type brokenSessionStore struct {
	session.Store
}

func (brokenSessionStore) Get(id string) (*session.Session, error) {
	return nil, errors.New("store unavailable")
}

// brokenUserDirectory works except for token resolution.
type brokenUserDirectory struct {
	users.Repo
}

func (brokenUserDirectory) FindByToken(token string) (*users.User, error) {
	return nil, errors.New("store unavailable")
}

// A failing backing store is not an authentication failure: the request
// carried a credential that was never evaluated, so the response must be a
// 500, not a 401.
func TestSessionStoreFaultIsNot401(t *testing.T) {
	srv, err := server.New(config.New(), server.Stores{
		Users:         users.NewInMemoryRepo(),
		Books:         books.NewSeededRepo(),
		Sessions:      brokenSessionStore{session.NewInMemoryStore()},
		RefreshTokens: token.NewInMemoryRefreshTokenRepo(),
	})
	require.NoError(t, err)

	w := doJSON(t, srv, http.MethodGet, "/session/books", nil, withCookie("session_id", "some-session"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "internal_error", decodeBody[map[string]string](t, w)["error"])

	// No cookie at all is still a plain 401: the store was never consulted.
	w = doJSON(t, srv, http.MethodGet, "/session/books", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOpaqueTokenStoreFaultIsNot401(t *testing.T) {
	srv, err := server.New(config.New(), server.Stores{
		Users:         brokenUserDirectory{users.NewInMemoryRepo()},
		Books:         books.NewSeededRepo(),
		Sessions:      session.NewInMemoryStore(),
		RefreshTokens: token.NewInMemoryRefreshTokenRepo(),
	})
	require.NoError(t, err)

	w := doJSON(t, srv, http.MethodGet, "/token/books", nil, withBearer("some-token"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "internal_error", decodeBody[map[string]string](t, w)["error"])

	w = doJSON(t, srv, http.MethodGet, "/token/books", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSSOEndpointsUnconfigured(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/sso/login", nil)
	require.Equal(t, http.StatusNotImplemented, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/sso/callback", nil)
	require.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestErrorBodyShape(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/jwt/books", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeBody[map[string]string](t, w)
	require.Equal(t, "unauthenticated", body["error"])
	require.NotEmpty(t, body["message"])
}
