package handler

import (
	"net/http"

	"github.com/joaovr/travel-map-tracker/internal/service"
)

// StatisticsHandler serves the travel summary route.
type StatisticsHandler struct {
	stats *service.StatisticsService
}

func NewStatisticsHandler(stats *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

// HandleSummary returns the current user's travel statistics.
//
//	GET /api/statistics/me
//	Response: {"total_visited": 2, "total_wishlist": 1, "total_countries": 33,
//	           "visited_by_continent": {"Asia": 1, ...}, "continents_visited": 2}
func (h *StatisticsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	summary, err := h.stats.Summary(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
