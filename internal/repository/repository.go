// Package repository defines the storage interfaces the service layer
// depends on. The concrete SQLite implementation lives in the sqlite
// subpackage; tests substitute in-memory fakes.
//
// One sqlite.DB satisfies all three interfaces, so method names carry the
// entity (CreateUser, CreateCountry, CreateMark) rather than relying on
// separate receiver types to disambiguate.
package repository

import (
	"context"

	"github.com/joaovr/travel-map-tracker/internal/model"
)

// UserRepository persists user accounts. Lookups that miss return an error
// matching apperror.ErrNotFound; writes violating a UNIQUE constraint
// (email, username, google_id) return an error matching apperror.ErrConflict.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

// CountryFilter narrows a country listing. Zero values mean "no filter".
type CountryFilter struct {
	Continent string // exact match
	Search    string // case-insensitive substring of the name
}

// CountryRepository reads the country catalog. CreateCountry exists only
// for seeding and tests — countries are never created through the API.
type CountryRepository interface {
	CreateCountry(ctx context.Context, country *model.Country) error
	GetCountryByID(ctx context.Context, id string) (*model.Country, error)
	ListCountries(ctx context.Context, filter CountryFilter) ([]model.Country, error)
	CountCountries(ctx context.Context) (int, error)
}

// MarkedCountryRepository persists the (user, country) marking rows.
// CreateMark returns an error matching apperror.ErrConflict when a row for
// the same (user, country) pair already exists — the service relies on that
// signal to resolve concurrent mark races.
type MarkedCountryRepository interface {
	CreateMark(ctx context.Context, mc *model.MarkedCountry) error
	GetMarkByUserAndCountry(ctx context.Context, userID, countryID string) (*model.MarkedCountry, error)
	UpdateMark(ctx context.Context, mc *model.MarkedCountry) error
	DeleteMark(ctx context.Context, id string) error
	// ListMarksByUser returns the user's rows joined with country name/code,
	// optionally filtered to a single status ("" means all).
	ListMarksByUser(ctx context.Context, userID string, status model.MarkStatus) ([]model.MarkedCountry, error)
}
