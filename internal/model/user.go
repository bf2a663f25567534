// Package model defines the data structures used throughout the application.
package model

import "time"

// User is an account created through /auth/register.
//
// PasswordHash holds the full bcrypt output (salt and cost included) and is
// never serialised: the json:"-" tag keeps it out of every API response.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// CurrentUser is the "who is calling" fact the stores consume.
//
// It is always passed explicitly; a nil *CurrentUser means the request is
// anonymous. Stores never look the caller up from a request-scoped global.
type CurrentUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
