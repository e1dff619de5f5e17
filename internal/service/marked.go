package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joaovr/travel-map-tracker/internal/apperror"
	"github.com/joaovr/travel-map-tracker/internal/model"
	"github.com/joaovr/travel-map-tracker/internal/repository"
)

// MarkOutcome tells the handler which of the three mark paths ran, so it
// can pick the right status code and message without re-deriving state.
type MarkOutcome int

const (
	// MarkCreated means the country was not marked before and a new mark
	// was created.
	MarkCreated MarkOutcome = iota
	// MarkUpdated means an existing mark changed status or dates.
	MarkUpdated
	// MarkUnchanged means the mark already carried the requested status
	// and dates; nothing was written.
	MarkUnchanged
)

// MarkedCountryService implements the visited/wishlist state machine on
// top of the mark repository.
type MarkedCountryService struct {
	marks     repository.MarkedCountryRepository
	countries repository.CountryRepository
	logger    *slog.Logger
}

// NewMarkedCountryService creates a MarkedCountryService.
func NewMarkedCountryService(
	marks repository.MarkedCountryRepository,
	countries repository.CountryRepository,
	logger *slog.Logger,
) *MarkedCountryService {
	return &MarkedCountryService{
		marks:     marks,
		countries: countries,
		logger:    logger,
	}
}

// MarkRequest carries the inputs for Mark. VisitStartDate/VisitEndDate are
// optional ISO dates (YYYY-MM-DD); a request that omits them leaves any
// previously stored dates untouched, so a plain status flip never erases
// recorded travel dates.
type MarkRequest struct {
	CountryID      string
	Status         model.MarkStatus
	VisitStartDate *string
	VisitEndDate   *string
}

const visitDateLayout = "2006-01-02"

func validVisitDate(s *string) bool {
	if s == nil {
		return true
	}
	_, err := time.Parse(visitDateLayout, *s)
	return err == nil
}

// Mark sets the user's status for a country, creating or updating the mark
// as needed. There is at most one mark per (user, country) pair; marking a
// wishlist country as visited flips the same row rather than adding a
// second one.
func (s *MarkedCountryService) Mark(ctx context.Context, userID string, req MarkRequest) (*model.MarkedCountry, MarkOutcome, error) {
	if req.CountryID == "" {
		return nil, 0, apperror.ValidationFailed("country_id", "country_id is required")
	}
	if !req.Status.Valid() {
		return nil, 0, apperror.ValidationFailed("status", `status must be "visited" or "wishlist"`)
	}
	if !validVisitDate(req.VisitStartDate) {
		return nil, 0, apperror.ValidationFailed("visit_start_date", "visit_start_date must be YYYY-MM-DD")
	}
	if !validVisitDate(req.VisitEndDate) {
		return nil, 0, apperror.ValidationFailed("visit_end_date", "visit_end_date must be YYYY-MM-DD")
	}

	country, err := s.countries.GetCountryByID(ctx, req.CountryID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, 0, apperror.NotFound("country", req.CountryID)
		}
		return nil, 0, fmt.Errorf("service/marked: looking up country %s: %w", req.CountryID, err)
	}

	existing, err := s.marks.GetMarkByUserAndCountry(ctx, userID, country.ID)
	switch {
	case err == nil:
		return s.applyToExisting(ctx, existing, req)

	case errors.Is(err, apperror.ErrNotFound):
		mc := &model.MarkedCountry{
			UserID:         userID,
			CountryID:      country.ID,
			Status:         req.Status,
			VisitStartDate: req.VisitStartDate,
			VisitEndDate:   req.VisitEndDate,
		}
		if createErr := s.marks.CreateMark(ctx, mc); createErr != nil {
			// A concurrent request for the same pair may have created the
			// row between the lookup and the insert; the UNIQUE constraint
			// catches it, and the update path resolves the race.
			if errors.Is(createErr, apperror.ErrConflict) {
				existing, err = s.marks.GetMarkByUserAndCountry(ctx, userID, country.ID)
				if err != nil {
					return nil, 0, fmt.Errorf("service/marked: refetching after conflict: %w", err)
				}
				return s.applyToExisting(ctx, existing, req)
			}
			return nil, 0, fmt.Errorf("service/marked: creating mark: %w", createErr)
		}
		mc.CountryName = country.Name
		mc.CountryCode = country.Code

		s.logger.Info("country marked",
			slog.String("userID", userID),
			slog.String("country", country.Code),
			slog.String("status", string(req.Status)),
		)
		return mc, MarkCreated, nil

	default:
		return nil, 0, fmt.Errorf("service/marked: looking up mark: %w", err)
	}
}

func (s *MarkedCountryService) applyToExisting(ctx context.Context, existing *model.MarkedCountry, req MarkRequest) (*model.MarkedCountry, MarkOutcome, error) {
	// Omitted dates keep their stored values.
	start, end := existing.VisitStartDate, existing.VisitEndDate
	if req.VisitStartDate != nil {
		start = req.VisitStartDate
	}
	if req.VisitEndDate != nil {
		end = req.VisitEndDate
	}

	if existing.Status == req.Status &&
		sameDate(existing.VisitStartDate, start) &&
		sameDate(existing.VisitEndDate, end) {
		return existing, MarkUnchanged, nil
	}

	existing.Status = req.Status
	existing.VisitStartDate = start
	existing.VisitEndDate = end
	if err := s.marks.UpdateMark(ctx, existing); err != nil {
		return nil, 0, fmt.Errorf("service/marked: updating mark %s: %w", existing.ID, err)
	}

	s.logger.Info("country mark updated",
		slog.String("userID", existing.UserID),
		slog.String("countryID", existing.CountryID),
		slog.String("status", string(req.Status)),
	)
	return existing, MarkUpdated, nil
}

func sameDate(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Unmark removes the user's mark for a country. expectedStatus guards
// against stale clients: when non-empty, the mark is only removed if it
// currently carries that status, so a "remove from wishlist" click cannot
// silently delete a visited record that replaced it in the meantime.
func (s *MarkedCountryService) Unmark(ctx context.Context, userID, countryID string, expectedStatus model.MarkStatus) error {
	if countryID == "" {
		return apperror.ValidationFailed("country_id", "country_id is required")
	}
	if expectedStatus != "" && !expectedStatus.Valid() {
		return apperror.ValidationFailed("status", `status must be "visited" or "wishlist"`)
	}

	existing, err := s.marks.GetMarkByUserAndCountry(ctx, userID, countryID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("marked country", countryID)
		}
		return fmt.Errorf("service/marked: looking up mark: %w", err)
	}

	if expectedStatus != "" && existing.Status != expectedStatus {
		return apperror.ValidationFailed("status",
			fmt.Sprintf("country is not marked as %s", expectedStatus))
	}

	if err := s.marks.DeleteMark(ctx, existing.ID); err != nil {
		return fmt.Errorf("service/marked: deleting mark %s: %w", existing.ID, err)
	}

	s.logger.Info("country unmarked",
		slog.String("userID", userID),
		slog.String("countryID", countryID),
	)
	return nil
}

// ListForUser returns the user's marks, optionally filtered by status.
// An empty status means all marks.
func (s *MarkedCountryService) ListForUser(ctx context.Context, userID string, status model.MarkStatus) ([]model.MarkedCountry, error) {
	if status != "" && !status.Valid() {
		return nil, apperror.ValidationFailed("status", `status must be "visited" or "wishlist"`)
	}

	marks, err := s.marks.ListMarksByUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("service/marked: listing marks for user %s: %w", userID, err)
	}
	return marks, nil
}
