package model // package model defines the records persisted by the stores

import "time"

// User mirrors the 'users' table. PasswordHash never leaves the server;
// handlers serialize the Identity view or an explicit DTO instead.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the minimal claim embedded in a session token: the user's
// opaque id plus display name. It is derived from a User at login/register
// time and is immutable once issued.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// TokenUser builds the Identity claim for a user. Only the id and display
// name travel in the token; everything else stays in the store.
func (u User) TokenUser() Identity {
	return Identity{UserID: u.ID, Name: u.Name}
}
