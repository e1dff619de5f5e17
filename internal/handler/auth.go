package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joaovr/travel-map-tracker/internal/auth"
	"github.com/joaovr/travel-map-tracker/internal/service"
)

// AuthHandler serves registration, Google sign-in, and profile routes.
type AuthHandler struct {
	auth     *service.AuthService
	provider *auth.GoogleProvider // nil when OAuth credentials are not configured
}

// NewAuthHandler creates an AuthHandler. provider may be nil; the redirect
// flow then answers 401 while the id_token exchange keeps working.
func NewAuthHandler(authService *service.AuthService, provider *auth.GoogleProvider) *AuthHandler {
	return &AuthHandler{auth: authService, provider: provider}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// HandleRegister creates a new account.
//
//	POST /api/auth/register
//	Body: {"email": "...", "username": "...", "name": "..."}
//	Response: 201 {"token": "...", "user": {...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Register(r.Context(), req.Email, req.Username, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

type googleVerifyRequest struct {
	IDToken string `json:"id_token"`
}

// HandleGoogleVerify exchanges a client-obtained Google ID token for an API
// token, creating or linking the account as needed.
//
//	POST /api/auth/google/verify
//	Body: {"id_token": "..."}
//	Response: 200 {"token": "...", "user": {...}}
func (h *AuthHandler) HandleGoogleVerify(w http.ResponseWriter, r *http.Request) {
	var req googleVerifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.LoginWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

const stateCookieName = "oauth_state"

// HandleGoogleLogin starts the server-side Authorization Code flow: mints a
// random state, stores it in a short-lived cookie, and redirects to Google.
//
//	GET /api/auth/google/login
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: "Google OAuth is not configured",
		})
		return
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		writeError(w, err)
		return
	}
	state := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback finishes the Authorization Code flow. The state from
// the query string must match the cookie set by HandleGoogleLogin; then the
// code is exchanged for a Google identity and the usual login runs.
//
//	GET /api/auth/google/callback?state=...&code=...
//	Response: 200 {"token": "...", "user": {...}}
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: "Google OAuth is not configured",
		})
		return
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: "invalid OAuth state",
		})
		return
	}

	// The state is single-use.
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	identity, err := h.provider.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: "Google sign-in failed",
		})
		return
	}

	result, err := h.auth.LoginWithGoogleIdentity(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleMe returns the authenticated user's own record.
//
//	GET /api/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateMeRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// HandleUpdateMe updates the authenticated user's profile. Absent fields
// stay untouched.
//
//	PUT /api/auth/users/me
//	Body: {"name": "...", "email": "..."}
func (h *AuthHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	var req updateMeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.auth.UpdateProfile(r.Context(), user, service.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// HandleListUsers returns all registered users. Public, like the rest of
// the user directory.
//
//	GET /api/auth/users
func (h *AuthHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleGetUser returns a single user by ID.
//
//	GET /api/auth/users/{userID}
func (h *AuthHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUserByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
