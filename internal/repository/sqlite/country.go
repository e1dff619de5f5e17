package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"

	"github.com/joaovr/travel-map-tracker/internal/apperror"
	"github.com/joaovr/travel-map-tracker/internal/model"
	"github.com/joaovr/travel-map-tracker/internal/repository"
)

var _ repository.CountryRepository = (*DB)(nil)

const countryColumns = `id, name, code, continent, flag, capital, population`

// CreateCountry inserts a country. Only the seeder and tests call this —
// the API treats the catalog as read-only.
func (db *DB) CreateCountry(ctx context.Context, country *model.Country) error {
	country.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO countries (id, name, code, continent, flag, capital, population)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		country.ID,
		country.Name,
		country.Code,
		country.Continent,
		country.Flag,
		country.Capital,
		country.Population,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return constraintErr(err, fmt.Sprintf("country %s already exists", country.Code))
		}
		return fmt.Errorf("sqlite: inserting country %s: %w", country.Code, err)
	}

	return nil
}

// GetCountryByID retrieves a country by ID.
// Returns an error matching apperror.ErrNotFound if it doesn't exist.
func (db *DB) GetCountryByID(ctx context.Context, id string) (*model.Country, error) {
	var c model.Country

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+countryColumns+` FROM countries WHERE id = ?`, id,
	).Scan(
		&c.ID, &c.Name, &c.Code, &c.Continent, &c.Flag, &c.Capital, &c.Population,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("country", id)
		}
		return nil, fmt.Errorf("sqlite: getting country %s: %w", id, err)
	}

	return &c, nil
}

// ListCountries returns catalog entries sorted by name, optionally narrowed by an
// exact continent and/or a case-insensitive name substring.
//
// SQLite's LIKE is case-insensitive for ASCII by default, which covers the
// catalog's English names.
func (db *DB) ListCountries(ctx context.Context, filter repository.CountryFilter) ([]model.Country, error) {
	query := `SELECT ` + countryColumns + ` FROM countries`
	var (
		clauses []string
		args    []any
	)

	if filter.Continent != "" {
		clauses = append(clauses, `continent = ?`)
		args = append(args, filter.Continent)
	}
	if filter.Search != "" {
		clauses = append(clauses, `name LIKE ?`)
		args = append(args, "%"+filter.Search+"%")
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY name`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing countries: %w", err)
	}
	defer rows.Close()

	countries := []model.Country{}
	for rows.Next() {
		var c model.Country
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Code, &c.Continent, &c.Flag, &c.Capital, &c.Population,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning country row: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating country rows: %w", err)
	}

	return countries, nil
}

// CountCountries returns the number of catalog entries. The seeder uses it
// to decide whether the table needs populating.
func (db *DB) CountCountries(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM countries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting countries: %w", err)
	}
	return n, nil
}
