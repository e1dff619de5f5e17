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

// Compile-time check that *DB implements repository.UserRepository.
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, username, email, name, google_id, created_at, updated_at`

// CreateUser inserts a new user. The caller's struct is modified in place: ID
// and timestamps are filled here so the service can hand the canonical
// record straight back to the client.
//
// A UNIQUE violation (email, username or google_id already taken) comes
// back as an apperror.Conflict — the service decides the message shown to
// the user before calling, but this is the backstop for races between the
// existence check and the insert.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, name, google_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		nullable(user.Username),
		user.Email,
		user.Name,
		nullable(user.GoogleID),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return constraintErr(err, "user with this email already exists")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetUserByID retrieves a user by internal ID.
// Returns an error matching apperror.ErrNotFound if no such user exists.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetUserByEmail retrieves a user by email address.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// GetUserByUsername retrieves a user by username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

// GetUserByGoogleID retrieves a user by their Google subject id.
func (db *DB) GetUserByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	return db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE google_id = ?`, googleID)
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var (
		u        model.User
		username sql.NullString
		googleID sql.NullString
	)

	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&username,
		&u.Email,
		&u.Name,
		&googleID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	u.Username = username.String
	u.GoogleID = googleID.String
	return &u, nil
}

// UpdateUser rewrites the mutable profile fields and touches updated_at.
// The struct's UpdatedAt is refreshed so the caller serializes the new value.
func (db *DB) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, name = ?, google_id = ?, updated_at = ?
		 WHERE id = ?`,
		nullable(user.Username),
		user.Email,
		user.Name,
		nullable(user.GoogleID),
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return constraintErr(err, "email already taken")
		}
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// ListUsers returns all users, oldest first. The user catalog of a personal
// tracker stays small, so there is no pagination here.
func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var (
			u        model.User
			username sql.NullString
			googleID sql.NullString
		)
		if err := rows.Scan(
			&u.ID, &username, &u.Email, &u.Name, &googleID, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		u.Username = username.String
		u.GoogleID = googleID.String
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user rows: %w", err)
	}

	return users, nil
}
