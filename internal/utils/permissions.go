package utils // package utils provides hashing and authorization helpers

import (
	"errors"

	"tasktracker/internal/model"
)

// ErrUnauthorized is returned when an authenticated caller attempts an
// operation on a resource they do not own. Handlers translate it into an
// HTTP 403 response. It is distinct from an authentication failure (401):
// the caller is known, just not the owner.
var ErrUnauthorized = errors.New("unauthorized to access this route")

// CheckOwnership compares the authenticated identity against a resource's
// recorded creator. It must run after the resource is loaded and found to
// exist (a missing resource is a 404 regardless of identity) and before any
// mutation reaches the store. Absence of an error is the success signal.
func CheckOwnership(id model.Identity, ownerID string) error {
	if id.UserID == ownerID {
		return nil
	}
	return ErrUnauthorized
}
