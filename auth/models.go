// Package auth is responsible for handling authentication and authorization:
// user registration, login, token issuance and verification, and the JWT
// middleware that guards protected routes.
package auth

import "time"

// User represents a user identity record. The avatar is derived from the
// email at registration time; HashedPassword is never serialized.
type User struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Do not expose hashed password
	Avatar         string    `json:"avatar"`
	CreatedAt      time.Time `json:"created_at"`
}
