package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joaovr/travel-map-tracker/internal/model"
	"github.com/joaovr/travel-map-tracker/internal/repository"
)

// TravelSummary aggregates a user's marks into the numbers the map screen
// renders. Computed from the mark rows on every request; with one row per
// (user, country) pair the scan is trivially small and never goes stale.
type TravelSummary struct {
	TotalVisited       int            `json:"total_visited"`
	TotalWishlist      int            `json:"total_wishlist"`
	TotalCountries     int            `json:"total_countries"`
	VisitedByContinent map[string]int `json:"visited_by_continent"`
	ContinentsVisited  int            `json:"continents_visited"`
}

// StatisticsService computes travel summaries.
type StatisticsService struct {
	marks     repository.MarkedCountryRepository
	countries repository.CountryRepository
	logger    *slog.Logger
}

// NewStatisticsService creates a StatisticsService.
func NewStatisticsService(
	marks repository.MarkedCountryRepository,
	countries repository.CountryRepository,
	logger *slog.Logger,
) *StatisticsService {
	return &StatisticsService{marks: marks, countries: countries, logger: logger}
}

// Summary computes the user's travel statistics. One pass over the user's
// marks plus one catalog listing — no per-mark lookups.
func (s *StatisticsService) Summary(ctx context.Context, userID string) (*TravelSummary, error) {
	marks, err := s.marks.ListMarksByUser(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("service/statistics: listing marks: %w", err)
	}

	catalog, err := s.countries.ListCountries(ctx, repository.CountryFilter{})
	if err != nil {
		return nil, fmt.Errorf("service/statistics: listing countries: %w", err)
	}
	continents := make(map[string]string, len(catalog))
	for i := range catalog {
		continents[catalog[i].ID] = catalog[i].Continent
	}

	summary := &TravelSummary{
		TotalCountries:     len(catalog),
		VisitedByContinent: map[string]int{},
	}

	for i := range marks {
		mc := &marks[i]
		switch mc.Status {
		case model.StatusVisited:
			summary.TotalVisited++
			if continent, ok := continents[mc.CountryID]; ok {
				summary.VisitedByContinent[continent]++
			}
		case model.StatusWishlist:
			summary.TotalWishlist++
		}
	}
	summary.ContinentsVisited = len(summary.VisitedByContinent)

	s.logger.Debug("computed travel summary",
		slog.String("userID", userID),
		slog.Int("visited", summary.TotalVisited),
		slog.Int("wishlist", summary.TotalWishlist),
	)
	return summary, nil
}
