package model

import "time"

// MarkStatus is the relationship a user has with a country.
// The database enforces the same set with a CHECK constraint, so a bad
// value can never reach a row even if validation is bypassed.
type MarkStatus string

const (
	StatusVisited  MarkStatus = "visited"
	StatusWishlist MarkStatus = "wishlist"
)

// Valid reports whether s is one of the two allowed statuses.
func (s MarkStatus) Valid() bool {
	return s == StatusVisited || s == StatusWishlist
}

// MarkedCountry records a user's relationship to a country.
//
// At most one row exists per (user, country) pair — enforced by a UNIQUE
// constraint. Marking an already-marked country mutates the status in
// place; it never creates a second row.
//
// CountryName and CountryCode are denormalized from the countries table at
// read time (the listings always need them, and the join is cheap).
//
// Visit dates are ISO "2006-01-02" strings, not time.Time: the wire format
// is a bare date, and a *time.Time would serialize as full RFC3339.
type MarkedCountry struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	CountryID      string     `json:"country_id"`
	CountryName    string     `json:"country_name,omitempty"`
	CountryCode    string     `json:"country_code,omitempty"`
	Status         MarkStatus `json:"status"`
	VisitStartDate *string    `json:"visit_start_date"`
	VisitEndDate   *string    `json:"visit_end_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
