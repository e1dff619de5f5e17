package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joaovr/travel-map-tracker/internal/apperror"
	"github.com/joaovr/travel-map-tracker/internal/auth"
	"github.com/joaovr/travel-map-tracker/internal/model"
	"github.com/joaovr/travel-map-tracker/internal/repository"
)

// Services are tested against in-memory fakes rather than real sqlite:
// the repository tests already prove the SQL, so these tests only need
// deterministic storage they can preload and inspect.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users  map[string]*model.User // keyed by ID
	nextID int
	// createErr, when set, is returned by CreateUser to simulate races.
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Conflict("user with this email already exists")
		}
		if user.Username != "" && u.Username == user.Username {
			return apperror.Conflict("username already taken")
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeUserRepo) GetUserByGoogleID(_ context.Context, googleID string) (*model.User, error) {
	for _, u := range f.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperror.NotFound("user", googleID)
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	for id, u := range f.users {
		if id != user.ID && u.Email == user.Email {
			return apperror.Conflict("email already taken")
		}
	}
	user.UpdatedAt = time.Now().UTC()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) ListUsers(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

// fakeCountryRepo is an in-memory CountryRepository.
type fakeCountryRepo struct {
	countries map[string]*model.Country
	nextID    int
	// getByIDCalls counts per-ID lookups, for tests asserting a caller
	// sticks to bulk listings.
	getByIDCalls int
}

func newFakeCountryRepo() *fakeCountryRepo {
	return &fakeCountryRepo{countries: map[string]*model.Country{}}
}

var _ repository.CountryRepository = (*fakeCountryRepo)(nil)

func (f *fakeCountryRepo) add(name, code, continent string) *model.Country {
	f.nextID++
	c := &model.Country{
		ID:        fmt.Sprintf("country-%d", f.nextID),
		Name:      name,
		Code:      code,
		Continent: continent,
	}
	f.countries[c.ID] = c
	return c
}

func (f *fakeCountryRepo) CreateCountry(_ context.Context, c *model.Country) error {
	f.nextID++
	c.ID = fmt.Sprintf("country-%d", f.nextID)
	clone := *c
	f.countries[c.ID] = &clone
	return nil
}

func (f *fakeCountryRepo) GetCountryByID(_ context.Context, id string) (*model.Country, error) {
	f.getByIDCalls++
	if c, ok := f.countries[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, apperror.NotFound("country", id)
}

func (f *fakeCountryRepo) ListCountries(_ context.Context, filter repository.CountryFilter) ([]model.Country, error) {
	out := make([]model.Country, 0, len(f.countries))
	for _, c := range f.countries {
		if filter.Continent != "" && c.Continent != filter.Continent {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCountryRepo) CountCountries(_ context.Context) (int, error) {
	return len(f.countries), nil
}

// fakeMarkedRepo is an in-memory MarkedCountryRepository.
type fakeMarkedRepo struct {
	marks  map[string]*model.MarkedCountry
	nextID int
	// failNextCreate makes the next CreateMark return ErrConflict once, as the
	// UNIQUE constraint would under a concurrent mark.
	failNextCreate bool
}

func newFakeMarkedRepo() *fakeMarkedRepo {
	return &fakeMarkedRepo{marks: map[string]*model.MarkedCountry{}}
}

var _ repository.MarkedCountryRepository = (*fakeMarkedRepo)(nil)

func (f *fakeMarkedRepo) CreateMark(_ context.Context, mc *model.MarkedCountry) error {
	if f.failNextCreate {
		f.failNextCreate = false
		return apperror.Conflict("country already marked by this user")
	}
	for _, m := range f.marks {
		if m.UserID == mc.UserID && m.CountryID == mc.CountryID {
			return apperror.Conflict("country already marked by this user")
		}
	}
	f.nextID++
	mc.ID = fmt.Sprintf("mark-%d", f.nextID)
	mc.CreatedAt = time.Now().UTC()
	mc.UpdatedAt = mc.CreatedAt
	clone := *mc
	f.marks[mc.ID] = &clone
	return nil
}

func (f *fakeMarkedRepo) GetMarkByUserAndCountry(_ context.Context, userID, countryID string) (*model.MarkedCountry, error) {
	for _, m := range f.marks {
		if m.UserID == userID && m.CountryID == countryID {
			clone := *m
			return &clone, nil
		}
	}
	return nil, apperror.NotFound("marked country", countryID)
}

func (f *fakeMarkedRepo) UpdateMark(_ context.Context, mc *model.MarkedCountry) error {
	if _, ok := f.marks[mc.ID]; !ok {
		return apperror.NotFound("marked country", mc.ID)
	}
	mc.UpdatedAt = time.Now().UTC()
	clone := *mc
	f.marks[mc.ID] = &clone
	return nil
}

func (f *fakeMarkedRepo) DeleteMark(_ context.Context, id string) error {
	if _, ok := f.marks[id]; !ok {
		return apperror.NotFound("marked country", id)
	}
	delete(f.marks, id)
	return nil
}

func (f *fakeMarkedRepo) ListMarksByUser(_ context.Context, userID string, status model.MarkStatus) ([]model.MarkedCountry, error) {
	out := make([]model.MarkedCountry, 0)
	for _, m := range f.marks {
		if m.UserID != userID {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

// fakeVerifier returns a canned Google identity, or an error.
type fakeVerifier struct {
	identity *auth.GoogleIdentity
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*auth.GoogleIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func newTestTokens() *auth.TokenService {
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars")
	if err != nil {
		panic(err)
	}
	return ts
}
