package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"tasktracker/internal/config"
	"tasktracker/internal/queue"
	"tasktracker/internal/repository"
	"tasktracker/internal/router"
	"tasktracker/internal/session"
)

func testConfig() config.Config {
	return config.Config{
		Env:          "test",
		Port:         "0",
		JWTSecret:    "test-jwt-secret",
		CookieSecret: "test-cookie-secret",
		TokenTTLMin:  60,
		BcryptCost:   4, // bcrypt.MinCost keeps the suite fast
	}
}

// newTestServer composes the real pipeline over in-memory stores, the same
// way cmd/server does over MySQL.
func newTestServer() *echo.Echo {
	return newTestServerWith(nil)
}

func newTestServerWith(events queue.Publisher) *echo.Echo {
	return router.New(router.Deps{
		Cfg:    testConfig(),
		Users:  repository.NewMemoryUserStore(),
		Tasks:  repository.NewMemoryTaskStore(),
		Events: events,
	})
}

func doJSON(e *echo.Echo, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// register creates a user and returns the response body and session cookie.
func register(t *testing.T, e *echo.Echo, name, email, password string) (map[string]any, *http.Cookie) {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register",
		map[string]string{"name": name, "email": email, "password": password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tok *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			tok = &http.Cookie{Name: ck.Name, Value: ck.Value}
		}
	}
	require.NotNil(t, tok, "register must set the session cookie")
	return decode(t, rec), tok
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("missing fields", func(t *testing.T) {
		e := newTestServer()
		for _, body := range []map[string]string{
			{},
			{"name": "Ada"},
			{"name": "Ada", "email": "ada@example.com"},
			{"email": "ada@example.com", "password": "hunter22"},
		} {
			rec := doJSON(e, http.MethodPost, "/api/v1/auth/register", body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, "Please provide all values!", decode(t, rec)["msg"])
		}
	})

	t.Run("success issues a working session", func(t *testing.T) {
		e := newTestServer()
		body, cookie := register(t, e, "Ada", "ada@example.com", "hunter22")
		require.Equal(t, "Ada", body["name"])
		require.Equal(t, "ada@example.com", body["email"])
		require.NotEmpty(t, body["userId"])

		// The cookie from register must authenticate a protected request,
		// and the identity it carries must match the created user.
		rec := doJSON(e, http.MethodGet, "/api/v1/auth/getCurrentUser", nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		me := decode(t, rec)
		require.Equal(t, body["userId"], me["userId"])
		require.Equal(t, "ada@example.com", me["email"])
		require.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		e := newTestServer()
		register(t, e, "Ada", "dup@example.com", "hunter22")
		rec := doJSON(e, http.MethodPost, "/api/v1/auth/register",
			map[string]string{"name": "Eve", "email": "dup@example.com", "password": "pw123456"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	e := newTestServer()
	register(t, e, "Ada", "ada@example.com", "hunter22")

	t.Run("missing fields", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "ada@example.com"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Please provide all values!", decode(t, rec)["msg"])
	})

	// Unknown email and wrong password answer with different status codes
	// but the same message; the asymmetry is part of the contract.
	t.Run("unknown email", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"email": "nobody@example.com", "password": "hunter22"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Invalid credentials!", decode(t, rec)["msg"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"email": "ada@example.com", "password": "randomPassword"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Invalid credentials!", decode(t, rec)["msg"])
	})

	t.Run("success", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"email": "ada@example.com", "password": "hunter22"})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		require.Equal(t, "Ada", body["name"])
		require.NotEmpty(t, rec.Result().Cookies())
	})
}

func TestGetCurrentUser_NoSession(t *testing.T) {
	t.Parallel()

	rec := doJSON(newTestServer(), http.MethodGet, "/api/v1/auth/getCurrentUser", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Authentication Invalid!", decode(t, rec)["msg"])
}

func TestLogout_Idempotent(t *testing.T) {
	t.Parallel()

	e := newTestServer()
	register(t, e, "Ada", "ada@example.com", "hunter22")

	for i := 0; i < 2; i++ {
		rec := doJSON(e, http.MethodGet, "/api/v1/auth/logout", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "User logged out!", decode(t, rec)["msg"])

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Empty(t, cookies[0].Value)
		require.True(t, cookies[0].Expires.Before(time.Now()))
		require.Negative(t, cookies[0].MaxAge)
	}
}
