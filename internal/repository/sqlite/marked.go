package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/joaovr/travel-map-tracker/internal/apperror"
	"github.com/joaovr/travel-map-tracker/internal/model"
	"github.com/joaovr/travel-map-tracker/internal/repository"
)

var _ repository.MarkedCountryRepository = (*DB)(nil)

// CreateMark inserts a marking row for a (user, country) pair.
//
// If another request inserted a row for the same pair first, the UNIQUE
// constraint fires and the error comes back as an apperror.Conflict. The
// service treats that as "the row exists after all" and falls back to the
// update path — two rows for one pair can never exist.
func (db *DB) CreateMark(ctx context.Context, mc *model.MarkedCountry) error {
	now := time.Now().UTC()
	mc.ID = xid.New().String()
	mc.CreatedAt = now
	mc.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO marked_countries
		   (id, user_id, country_id, status, visit_start_date, visit_end_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		mc.ID,
		mc.UserID,
		mc.CountryID,
		string(mc.Status),
		mc.VisitStartDate,
		mc.VisitEndDate,
		mc.CreatedAt,
		mc.UpdatedAt,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return constraintErr(err, "country already marked by this user")
		}
		return fmt.Errorf("sqlite: inserting marked country (user=%s country=%s): %w",
			mc.UserID, mc.CountryID, err)
	}

	return nil
}

// GetMarkByUserAndCountry retrieves the single row for a (user, country)
// pair. Returns an error matching apperror.ErrNotFound if the pair is
// unmarked.
func (db *DB) GetMarkByUserAndCountry(ctx context.Context, userID, countryID string) (*model.MarkedCountry, error) {
	mc, err := db.scanMarked(db.conn.QueryRowContext(ctx,
		`SELECT m.id, m.user_id, m.country_id, c.name, c.code, m.status,
		        m.visit_start_date, m.visit_end_date, m.created_at, m.updated_at
		 FROM marked_countries m
		 JOIN countries c ON c.id = m.country_id
		 WHERE m.user_id = ? AND m.country_id = ?`,
		userID, countryID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("marked country", countryID)
		}
		return nil, fmt.Errorf("sqlite: getting marked country (user=%s country=%s): %w",
			userID, countryID, err)
	}

	return mc, nil
}

// UpdateMark rewrites status and visit dates and touches updated_at.
func (db *DB) UpdateMark(ctx context.Context, mc *model.MarkedCountry) error {
	mc.UpdatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE marked_countries
		 SET status = ?, visit_start_date = ?, visit_end_date = ?, updated_at = ?
		 WHERE id = ?`,
		string(mc.Status),
		mc.VisitStartDate,
		mc.VisitEndDate,
		mc.UpdatedAt,
		mc.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating marked country %s: %w", mc.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating marked country %s: %w", mc.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("marked country", mc.ID)
	}

	return nil
}

// DeleteMark removes a marking row by its ID.
func (db *DB) DeleteMark(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM marked_countries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting marked country %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting marked country %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("marked country", id)
	}

	return nil
}

// ListMarksByUser returns the user's rows joined with country name and
// code, optionally filtered to one status. Insertion order; the listing is
// small (bounded by the country catalog) and the API promises no ordering.
func (db *DB) ListMarksByUser(ctx context.Context, userID string, status model.MarkStatus) ([]model.MarkedCountry, error) {
	query := `SELECT m.id, m.user_id, m.country_id, c.name, c.code, m.status,
	                 m.visit_start_date, m.visit_end_date, m.created_at, m.updated_at
	          FROM marked_countries m
	          JOIN countries c ON c.id = m.country_id
	          WHERE m.user_id = ?`
	args := []any{userID}

	if status != "" {
		query += ` AND m.status = ?`
		args = append(args, string(status))
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing marked countries for user %s: %w", userID, err)
	}
	defer rows.Close()

	marks := []model.MarkedCountry{}
	for rows.Next() {
		mc, err := db.scanMarked(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning marked country row: %w", err)
		}
		marks = append(marks, *mc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating marked country rows: %w", err)
	}

	return marks, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (db *DB) scanMarked(row rowScanner) (*model.MarkedCountry, error) {
	var (
		mc     model.MarkedCountry
		status string
	)
	if err := row.Scan(
		&mc.ID,
		&mc.UserID,
		&mc.CountryID,
		&mc.CountryName,
		&mc.CountryCode,
		&status,
		&mc.VisitStartDate,
		&mc.VisitEndDate,
		&mc.CreatedAt,
		&mc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	mc.Status = model.MarkStatus(status)
	return &mc, nil
}
