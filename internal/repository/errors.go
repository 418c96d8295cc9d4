// Package repository defines the user and task stores plus the sentinel
// errors handlers use to pick a response. The MySQL implementations live
// alongside in-memory ones; handlers only depend on the interfaces.
package repository

import "errors"

// ErrEmailExists is returned by UserStore.Create when the email is already
// registered. Handlers translate it into a 400 response.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrTaskNotFound is returned when no task matches the id. Handlers
// translate it into a 404 regardless of who is asking; the not-found check
// runs before any ownership comparison.
var ErrTaskNotFound = errors.New("task not found")
