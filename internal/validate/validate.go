// Package validate holds pure syntax checks for user-supplied identifiers.
//
// These are deliberately plain functions of their input — no context, no
// I/O — so they can be called from any layer and tested exhaustively.
// Uniqueness ("is this email taken?") is NOT checked here; that belongs to
// the service layer, which can ask the repository.
package validate

import "regexp"

// emailPattern is intentionally permissive: it checks the rough shape
// local@domain.tld rather than full RFC 5322. Anything stricter rejects
// real addresses; anything looser lets "invalid@" through.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// usernamePattern: 3-80 characters, starting with a letter, then letters,
// digits, underscores, dots or hyphens.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9._-]{2,79}$`)

// Email reports whether s looks like a valid email address.
func Email(s string) bool {
	if s == "" {
		return false
	}
	return emailPattern.MatchString(s)
}

// Username reports whether s is an acceptable username.
func Username(s string) bool {
	if s == "" {
		return false
	}
	return usernamePattern.MatchString(s)
}
