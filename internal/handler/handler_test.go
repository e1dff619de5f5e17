package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/joaovr/travel-map-tracker/internal/auth"
	"github.com/joaovr/travel-map-tracker/internal/model"
	"github.com/joaovr/travel-map-tracker/internal/repository/sqlite"
	"github.com/joaovr/travel-map-tracker/internal/service"
)

// Handler tests run against the real service and sqlite layers on an
// in-memory database — the HTTP surface is thin, so testing it against
// fakes would mostly test the fakes.

type testEnv struct {
	db      *sqlite.DB
	tokens  *auth.TokenService
	auth    *AuthHandler
	country *CountryHandler
	marked  *MarkedCountryHandler
	stats   *StatisticsHandler
	router  *chi.Mux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite.New(:memory:): %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	if err != nil {
		t.Fatalf("NewTokenService(): %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verifier := auth.NewGoogleVerifierWithEndpoint("http://127.0.0.1:0/never-called")

	env := &testEnv{
		db:     db,
		tokens: tokens,
		auth: NewAuthHandler(
			service.NewAuthService(db, tokens, verifier, "", logger), nil),
		country: NewCountryHandler(service.NewCountryService(db, logger)),
		marked: NewMarkedCountryHandler(
			service.NewMarkedCountryService(db, db, logger)),
		stats: NewStatisticsHandler(
			service.NewStatisticsService(db, db, logger)),
	}

	authenticator := auth.NewAuthenticator(tokens, db)
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", env.auth.HandleRegister)
		r.Post("/auth/google/verify", env.auth.HandleGoogleVerify)
		r.Get("/auth/users", env.auth.HandleListUsers)
		r.Get("/auth/users/{userID}", env.auth.HandleGetUser)
		r.Get("/countries", env.country.HandleList)
		r.Get("/countries/{countryID}", env.country.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(authenticator))
			r.Get("/auth/me", env.auth.HandleMe)
			r.Put("/auth/users/me", env.auth.HandleUpdateMe)
			r.Post("/marked-countries/mark", env.marked.HandleMark)
			r.Post("/marked-countries/unmark", env.marked.HandleUnmark)
			r.Get("/marked-countries/my", env.marked.HandleListMine)
			r.Get("/marked-countries/my/visited", env.marked.HandleVisited)
			r.Get("/marked-countries/my/wishlist", env.marked.HandleWishlist)
			r.Get("/statistics/me", env.stats.HandleSummary)
		})
	})
	env.router = r
	return env
}

// seedUser creates a user directly and returns it with a valid token.
func (env *testEnv) seedUser(t *testing.T, email string) (*model.User, string) {
	t.Helper()
	user := &model.User{Email: email, Name: "Test User"}
	if err := env.db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	token, err := env.tokens.Generate(user.ID)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return user, token
}

func (env *testEnv) seedCountry(t *testing.T, name, code, continent string) *model.Country {
	t.Helper()
	c := &model.Country{Name: name, Code: code, Continent: continent}
	if err := env.db.CreateCountry(context.Background(), c); err != nil {
		t.Fatalf("seeding country: %v", err)
	}
	return c
}

// do runs a request through the router. body may be nil; token may be "".
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}
