// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Users arrive through two doors: plain email registration (no password —
// the token returned at registration is the credential) and Google sign-in.
// A single account can use both: the email is the merge key that lets a
// user who registered by email later claim the same account via Google.
//
// WHY GoogleID string (not an integer)?
// Google's OpenID "sub" claim is a decimal string up to 255 characters and
// the docs explicitly warn against treating it as a number. The UNIQUE
// constraint on google_id ensures one Google account maps to exactly one
// app account.
//
// Username and GoogleID use the empty string as "absent". The repository
// stores them as NULL so the UNIQUE indexes allow any number of users
// without a username or Google link.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"` // optional, unique when set
	Email     string    `json:"email"`              // required, unique
	Name      string    `json:"name,omitempty"`     // display name
	GoogleID  string    `json:"-"`                  // Google "sub" claim — never serialized
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
