package token // package token issues and verifies signed session tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"tasktracker/internal/model"
)

// ErrInvalidToken is the single failure kind this package reports. A
// malformed token, a bad or mismatched signature, an unexpected algorithm,
// a past expiry and missing claims are deliberately indistinguishable:
// callers map all of them to the same authentication failure.
var ErrInvalidToken = errors.New("invalid token")

// SessionToken is a signed JWT session credential along with its expiry.
// The Token field contains the serialized JWT string; Exp records the UTC
// expiration time so the transport layer can align the cookie lifetime.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// Issue builds and signs an HS256 JWT embedding the identity. The claims
// are sub (user id), name (display name), exp and iat. There is no
// server-side session table: validity is purely cryptographic plus expiry,
// so a token cannot be revoked before it expires. Compromise mitigation
// relies solely on keeping the TTL short.
func Issue(secret string, id model.Identity, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  id.UserID,
		"name": id.Name,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// Verify parses and validates a session token and returns the embedded
// identity. Any failure is reported as ErrInvalidToken.
func Verify(raw, secret string) (model.Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC; the library would
		// otherwise accept e.g. an RSA token carrying our secret as a key.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return model.Identity{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Identity{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return model.Identity{}, ErrInvalidToken
	}
	return model.Identity{UserID: sub, Name: name}, nil
}
