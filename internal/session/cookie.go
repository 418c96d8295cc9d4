// Package session binds a session token to the HTTP layer as a signed,
// HTTP-only cookie. The cookie carries its own HMAC so tampering is
// detectable at the transport layer independently of the token's JWT
// signature. A tampered cookie and a missing cookie are indistinguishable
// to callers.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName is the session cookie name the original clients expect.
const CookieName = "token"

// sign computes the transport-layer MAC over a cookie value.
func sign(value, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Seal returns the cookie payload for a token: "<token>.<mac>".
func Seal(tok, secret string) string {
	return tok + "." + sign(tok, secret)
}

// Open splits and verifies a sealed cookie payload. The boolean is false
// for a malformed payload or a MAC mismatch.
func Open(sealed, secret string) (string, bool) {
	i := strings.LastIndexByte(sealed, '.')
	if i <= 0 || i == len(sealed)-1 {
		return "", false
	}
	tok, mac := sealed[:i], sealed[i+1:]
	want, err := base64.RawURLEncoding.DecodeString(mac)
	if err != nil {
		return "", false
	}
	got := hmac.New(sha256.New, []byte(secret))
	got.Write([]byte(tok))
	if !hmac.Equal(got.Sum(nil), want) {
		return "", false
	}
	return tok, true
}

// Attach sets the session cookie on the response. The cookie is HTTP-only,
// SameSite=None, Secure when running in production, and expires together
// with the token it carries.
func Attach(c echo.Context, tok, secret string, exp time.Time, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    Seal(tok, secret),
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteNoneMode,
	})
}

// Extract reads and verifies the session cookie from the request. A missing
// cookie and a cookie whose MAC does not verify produce the same (token="",
// ok=false) result; downstream code must not distinguish the two cases.
func Extract(c echo.Context, secret string) (string, bool) {
	ck, err := c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return Open(ck.Value, secret)
}

// Clear overwrites the session cookie with an already-expired empty value.
// Calling it twice has the same effect as calling it once.
func Clear(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteNoneMode,
	})
}
