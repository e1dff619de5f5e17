package handler

import (
	"net/http"

	"github.com/joaovr/travel-map-tracker/internal/auth"
	"github.com/joaovr/travel-map-tracker/internal/model"
	"github.com/joaovr/travel-map-tracker/internal/service"
)

// MarkedCountryHandler serves the mark/unmark/list routes. Every route is
// behind RequireAuth; the user always comes from the request context, never
// from the body, so one user can never write another user's marks.
type MarkedCountryHandler struct {
	marks *service.MarkedCountryService
}

func NewMarkedCountryHandler(marks *service.MarkedCountryService) *MarkedCountryHandler {
	return &MarkedCountryHandler{marks: marks}
}

func requestUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return "", false
	}
	return user.ID, true
}

type markRequest struct {
	CountryID      string  `json:"country_id"`
	Status         string  `json:"status"`
	VisitStartDate *string `json:"visit_start_date"`
	VisitEndDate   *string `json:"visit_end_date"`
}

// markResponse pairs the confirmation message with the resulting mark.
type markResponse struct {
	Message       string               `json:"message"`
	MarkedCountry *model.MarkedCountry `json:"marked_country"`
}

// HandleMark marks a country as visited or wishlist for the current user.
//
//	POST /api/marked-countries/mark
//	Body: {"country_id": "...", "status": "visited",
//	       "visit_start_date": "2024-01-10", "visit_end_date": "2024-01-24"}
//
// Responses distinguish the three outcomes:
//
//	201 "Country marked successfully"             (new mark)
//	200 "Country status updated"                  (existing mark changed)
//	200 "Country already marked with this status" (no-op)
func (h *MarkedCountryHandler) HandleMark(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	var req markRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	mc, outcome, err := h.marks.Mark(r.Context(), userID, service.MarkRequest{
		CountryID:      req.CountryID,
		Status:         model.MarkStatus(req.Status),
		VisitStartDate: req.VisitStartDate,
		VisitEndDate:   req.VisitEndDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	switch outcome {
	case service.MarkCreated:
		writeJSON(w, http.StatusCreated, markResponse{
			Message:       "Country marked successfully",
			MarkedCountry: mc,
		})
	case service.MarkUpdated:
		writeJSON(w, http.StatusOK, markResponse{
			Message:       "Country status updated",
			MarkedCountry: mc,
		})
	default:
		writeJSON(w, http.StatusOK, markResponse{
			Message:       "Country already marked with this status",
			MarkedCountry: mc,
		})
	}
}

type unmarkRequest struct {
	CountryID string `json:"country_id"`
	Status    string `json:"status"`
}

// HandleUnmark removes the current user's mark for a country. The optional
// body status is a guard: when present, the mark is only removed if it
// still carries that status.
//
//	POST /api/marked-countries/unmark
//	Body: {"country_id": "...", "status": "wishlist"}
//	Response: 200 {"message": "Country unmarked successfully"}
func (h *MarkedCountryHandler) HandleUnmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	var req unmarkRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.marks.Unmark(r.Context(), userID, req.CountryID, model.MarkStatus(req.Status)); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Country unmarked successfully",
	})
}

// HandleListMine returns the current user's marks.
//
//	GET /api/marked-countries/my?status=visited
func (h *MarkedCountryHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	status := model.MarkStatus(r.URL.Query().Get("status"))
	marks, err := h.marks.ListForUser(r.Context(), userID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, marks)
}

// HandleVisited returns only the visited marks.
//
//	GET /api/marked-countries/my/visited
func (h *MarkedCountryHandler) HandleVisited(w http.ResponseWriter, r *http.Request) {
	h.listWithStatus(w, r, model.StatusVisited)
}

// HandleWishlist returns only the wishlist marks.
//
//	GET /api/marked-countries/my/wishlist
func (h *MarkedCountryHandler) HandleWishlist(w http.ResponseWriter, r *http.Request) {
	h.listWithStatus(w, r, model.StatusWishlist)
}

func (h *MarkedCountryHandler) listWithStatus(w http.ResponseWriter, r *http.Request, status model.MarkStatus) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	marks, err := h.marks.ListForUser(r.Context(), userID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, marks)
}
