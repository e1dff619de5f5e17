// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and return domain models plus apperror values;
// they know nothing about HTTP. The handler layer alone translates errors
// into status codes, and the repository layer alone speaks SQL.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joaovr/travel-map-tracker/internal/apperror"
	"github.com/joaovr/travel-map-tracker/internal/auth"
	"github.com/joaovr/travel-map-tracker/internal/model"
	"github.com/joaovr/travel-map-tracker/internal/repository"
	"github.com/joaovr/travel-map-tracker/internal/validate"
)

// GoogleTokenVerifier is what AuthService needs from the Google side: turn
// a caller-supplied ID token into a verified identity. Satisfied by
// *auth.GoogleVerifier in production and by fakes in tests.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*auth.GoogleIdentity, error)
}

// AuthService handles registration, Google sign-in, and profile management.
type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenService
	google   GoogleTokenVerifier
	audience string // expected "aud" claim; empty disables the check
	logger   *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// audience is the app's Google OAuth client ID; when non-empty, Google
// assertions minted for any other client are rejected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	google GoogleTokenVerifier,
	audience string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		google:   google,
		audience: audience,
		logger:   logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler can
// respond with both in one step.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates a new account from an email (required), an optional
// username, and an optional display name, and issues a token for it.
//
// Duplicate email and taken username both come back as conflicts. The
// pre-checks give precise messages; the repository's UNIQUE constraints
// are the backstop for two concurrent registrations of the same email.
func (s *AuthService) Register(ctx context.Context, email, username, name string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)

	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if !validate.Email(email) {
		return nil, apperror.ValidationFailed("email", "invalid email format")
	}
	if username != "" && !validate.Username(username) {
		return nil, apperror.ValidationFailed("username", "invalid username format")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("user with this email already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking email %s: %w", email, err)
	}

	if username != "" {
		if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
			return nil, apperror.Conflict("username already taken")
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/auth: checking username %s: %w", username, err)
		}
	}

	user := &model.User{
		Email:    email,
		Username: username,
		Name:     name,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// A concurrent registration may have won the race since the check
		// above; the constraint conflict propagates as-is.
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user (email=%s): %w", email, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return s.issueFor(user)
}

// LoginWithGoogle verifies a Google ID token and returns the user it maps
// to, creating or linking an account as needed.
//
// The verifier failing means the token is expired, malformed, or not
// Google's — an authentication failure, not an internal error. The
// audience check is separate and produces its own message so a
// misconfigured client ID is diagnosable from the response.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	if idToken == "" {
		return nil, apperror.ValidationFailed("id_token", "ID token is required")
	}

	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		s.logger.Warn("Google token verification failed", slog.String("error", err.Error()))
		return nil, apperror.Unauthorized("invalid Google token")
	}

	if s.audience != "" && identity.Audience != s.audience {
		s.logger.Warn("Google token audience mismatch",
			slog.String("got", identity.Audience),
		)
		return nil, apperror.Unauthorized("token audience mismatch")
	}

	user, err := s.resolveOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user authenticated via Google",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return s.issueFor(user)
}

// LoginWithGoogleIdentity runs the same resolve-or-create path for an
// identity already verified elsewhere (the server-side OAuth callback).
func (s *AuthService) LoginWithGoogleIdentity(ctx context.Context, identity *auth.GoogleIdentity) (*AuthResult, error) {
	if identity == nil {
		return nil, fmt.Errorf("service/auth: Google identity must not be nil")
	}

	user, err := s.resolveOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}

	return s.issueFor(user)
}

// resolveOrCreate maps a verified Google identity onto a user record in
// three tiers:
//
//  1. A user already linked to this Google subject → refresh email/name if
//     they changed on the Google side, touch updated_at.
//  2. A user with the same email, not yet linked → link the subject to it
//     (and fill in the name if the account never had one). This lets a
//     user who registered by email later claim the account via Google
//     without creating a duplicate — providers supply verified emails, so
//     email equality is a safe merge key.
//  3. Nobody → create a fresh user with email, name and the subject id.
//
// An assertion without an email is unrecoverable: there is nothing to
// merge on and no valid account to create.
func (s *AuthService) resolveOrCreate(ctx context.Context, identity *auth.GoogleIdentity) (*model.User, error) {
	if identity.Email == "" {
		return nil, apperror.ValidationFailed("email", "Google account has no email")
	}

	// Tier 1: already linked.
	user, err := s.users.GetUserByGoogleID(ctx, identity.Sub)
	if err == nil {
		changed := false
		if user.Email != identity.Email {
			user.Email = identity.Email
			changed = true
		}
		if identity.Name != "" && user.Name != identity.Name {
			user.Name = identity.Name
			changed = true
		}
		if changed {
			if err := s.users.UpdateUser(ctx, user); err != nil {
				return nil, fmt.Errorf("service/auth: refreshing linked user %s: %w", user.ID, err)
			}
		}
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: looking up google_id: %w", err)
	}

	// Tier 2: merge by email.
	user, err = s.users.GetUserByEmail(ctx, identity.Email)
	if err == nil {
		user.GoogleID = identity.Sub
		if identity.Name != "" && user.Name == "" {
			user.Name = identity.Name
		}
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("service/auth: linking user %s: %w", user.ID, err)
		}
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: looking up email: %w", err)
	}

	// Tier 3: first contact.
	user = &model.User{
		Email:    identity.Email,
		Name:     identity.Name,
		GoogleID: identity.Sub,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user from Google identity: %w", err)
	}

	return user, nil
}

func (s *AuthService) issueFor(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the user for the given internal ID.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetUserByID(ctx, id)
}

// ListUsers returns every registered user.
func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/auth: listing users: %w", err)
	}
	return users, nil
}

// ProfileUpdate carries the optional changes for UpdateProfile. Nil means
// "leave this field alone"; a pointer to "" clears the name (the email can
// never be cleared).
type ProfileUpdate struct {
	Name  *string
	Email *string
}

// UpdateProfile applies the requested changes to the authenticated user.
// A changed email is revalidated and must not belong to another account.
func (s *AuthService) UpdateProfile(ctx context.Context, user *model.User, changes ProfileUpdate) (*model.User, error) {
	if changes.Name != nil {
		user.Name = strings.TrimSpace(*changes.Name)
	}

	if changes.Email != nil {
		email := strings.TrimSpace(*changes.Email)
		if !validate.Email(email) {
			return nil, apperror.ValidationFailed("email", "invalid email format")
		}
		if existing, err := s.users.GetUserByEmail(ctx, email); err == nil {
			if existing.ID != user.ID {
				return nil, apperror.Conflict("email already taken")
			}
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/auth: checking email %s: %w", email, err)
		}
		user.Email = email
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("email already taken")
		}
		return nil, fmt.Errorf("service/auth: updating user %s: %w", user.ID, err)
	}

	s.logger.Info("profile updated", slog.String("userID", user.ID))
	return user, nil
}
