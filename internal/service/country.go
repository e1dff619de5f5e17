package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joaovr/travel-map-tracker/internal/apperror"
	"github.com/joaovr/travel-map-tracker/internal/model"
	"github.com/joaovr/travel-map-tracker/internal/repository"
)

// CountryService exposes the read-only country catalog.
type CountryService struct {
	countries repository.CountryRepository
	logger    *slog.Logger
}

// NewCountryService creates a CountryService.
func NewCountryService(countries repository.CountryRepository, logger *slog.Logger) *CountryService {
	return &CountryService{countries: countries, logger: logger}
}

// List returns countries matching the optional continent and search
// filters. Both empty means the whole catalog.
func (s *CountryService) List(ctx context.Context, continent, search string) ([]model.Country, error) {
	filter := repository.CountryFilter{
		Continent: strings.TrimSpace(continent),
		Search:    strings.TrimSpace(search),
	}

	countries, err := s.countries.ListCountries(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list countries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/country: listing countries: %w", err)
	}
	return countries, nil
}

// GetByID returns a single country from the catalog.
func (s *CountryService) GetByID(ctx context.Context, id string) (*model.Country, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "country ID is required")
	}
	return s.countries.GetCountryByID(ctx, id)
}
