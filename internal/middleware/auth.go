package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tasktracker/internal/model"
	"tasktracker/internal/session"
	"tasktracker/internal/token"
)

// identityKey is the context key under which the authenticated identity is
// stored for downstream handlers.
const identityKey = "identity"

// Authenticate returns an Echo middleware that gates every protected route.
// It extracts the signed session cookie, verifies the token it carries and
// attaches the decoded identity to the request context. A missing cookie, a
// tampered cookie and an invalid or expired token all produce the same 401
// response; nothing downstream can tell the cases apart. Each request is
// verified independently: no state is held between requests.
func Authenticate(jwtSecret, cookieSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, ok := session.Extract(c, cookieSecret)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Authentication Invalid!"})
			}
			id, err := token.Verify(tok, jwtSecret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Authentication Invalid!"})
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// IdentityFrom returns the authenticated identity stored by Authenticate.
// The boolean is false on routes that never passed through the middleware.
func IdentityFrom(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(identityKey).(model.Identity)
	return id, ok
}
