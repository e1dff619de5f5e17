package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/joaovr/travel-map-tracker/internal/apperror"
	"github.com/joaovr/travel-map-tracker/internal/model"
	"github.com/joaovr/travel-map-tracker/internal/repository"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. With a plain string key, ANY
// package that knows the string could read or shadow the value. A
// package-private type means only this package can create the key, so only
// this package controls what lives under it.
type contextKey string

const userKey contextKey = "user"

// Authenticator turns an inbound request's Authorization header into a
// concrete user record. It needs both the token service (to verify the
// signature and expiry) and the user repository (a verified token can
// still reference a user that no longer exists).
type Authenticator struct {
	tokens *TokenService
	users  repository.UserRepository
}

func NewAuthenticator(tokens *TokenService, users repository.UserRepository) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// ResolveBearer authenticates an "Authorization: Bearer <token>" header
// value and returns the user it identifies. Exactly one of (user, error)
// is non-nil. The four failure shapes are kept distinct so clients see
// useful messages:
//
//	missing header        → 401 "authorization header is required"
//	no scheme/token split → 401 "invalid authorization header format"
//	expired token         → 401 "token has expired"
//	any other bad token   → 401 "invalid token"
//	verified, unknown id  → 404 user not found
func (a *Authenticator) ResolveBearer(ctx context.Context, header string) (*model.User, error) {
	if header == "" {
		return nil, apperror.Unauthorized("authorization header is required")
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" {
		return nil, apperror.Unauthorized("invalid authorization header format")
	}

	userID, err := a.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, apperror.Unauthorized("token has expired")
		}
		return nil, apperror.Unauthorized("invalid token")
	}

	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("user", userID)
		}
		return nil, err
	}

	return user, nil
}

// RequireAuth is a middleware that enforces authentication on protected
// routes. It resolves the bearer token to a full user record and stores it
// in the request context; handlers read it back with UserFromContext and
// never touch the Authorization header themselves.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns a new http.Handler that
// wraps it. Chi applies them in a chain:
// req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAuth(a *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.ResolveBearer(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				writeAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// ContextWithUser stores the authenticated user in the context. Exported
// so handler tests can inject a user without running the middleware.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user from the request
// context. Returns (nil, false) if the request never passed RequireAuth.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// writeAuthError sends the resolution failure as JSON. The middleware sits
// outside the handler package, so it carries its own tiny error writer
// producing the same {"error","message"} shape the handlers use.
func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	errType := "unauthorized"
	if errors.Is(err, apperror.ErrNotFound) {
		status = http.StatusNotFound
		errType = "not_found"
	}

	message := "valid authentication required"
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   errType,
		"message": message,
	})
}
