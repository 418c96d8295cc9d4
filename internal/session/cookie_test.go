package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	t.Parallel()

	sealed := Seal("some.jwt.token", "secret")
	got, ok := Open(sealed, "secret")
	if !ok {
		t.Fatalf("Open rejected a freshly sealed value")
	}
	if got != "some.jwt.token" {
		t.Fatalf("token mismatch: got %q", got)
	}
}

func TestOpen_TamperedOrMalformed(t *testing.T) {
	t.Parallel()

	sealed := Seal("some.jwt.token", "secret")
	cases := []string{
		"",
		"no-separator",
		sealed + "x",                    // damaged MAC
		"other.jwt" + sealed[len("some.jwt.token"):], // swapped payload
		Seal("some.jwt.token", "other-secret"),       // wrong secret
	}
	for _, c := range cases {
		if _, ok := Open(c, "secret"); ok {
			t.Fatalf("Open accepted tampered value %q", c)
		}
	}
}

func newContext(t *testing.T, cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestAttachExtract(t *testing.T) {
	t.Parallel()

	c, rec := newContext(t, nil)
	Attach(c, "tok-value", "secret", time.Now().Add(time.Hour), false)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != CookieName || !ck.HttpOnly || ck.SameSite != http.SameSiteNoneMode {
		t.Fatalf("unexpected cookie attributes: %+v", ck)
	}

	c2, _ := newContext(t, &http.Cookie{Name: CookieName, Value: ck.Value})
	tok, ok := Extract(c2, "secret")
	if !ok || tok != "tok-value" {
		t.Fatalf("Extract failed: tok=%q ok=%v", tok, ok)
	}
}

func TestExtract_MissingAndTamperedLookAlike(t *testing.T) {
	t.Parallel()

	c, _ := newContext(t, nil)
	if tok, ok := Extract(c, "secret"); ok || tok != "" {
		t.Fatalf("missing cookie: expected (\"\", false), got (%q, %v)", tok, ok)
	}

	c2, _ := newContext(t, &http.Cookie{Name: CookieName, Value: Seal("tok", "secret") + "x"})
	if tok, ok := Extract(c2, "secret"); ok || tok != "" {
		t.Fatalf("tampered cookie: expected (\"\", false), got (%q, %v)", tok, ok)
	}
}

func TestClear_Idempotent(t *testing.T) {
	t.Parallel()

	c, rec := newContext(t, nil)
	Clear(c, false)
	Clear(c, false)

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 Set-Cookie headers, got %d", len(cookies))
	}
	for _, ck := range cookies {
		if ck.Value != "" {
			t.Fatalf("expected empty value, got %q", ck.Value)
		}
		if ck.Expires.After(time.Now()) {
			t.Fatalf("expected past expiry, got %v", ck.Expires)
		}
	}
}
