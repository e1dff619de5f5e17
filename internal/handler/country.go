package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joaovr/travel-map-tracker/internal/service"
)

// CountryHandler serves the read-only country catalog.
type CountryHandler struct {
	countries *service.CountryService
}

func NewCountryHandler(countries *service.CountryService) *CountryHandler {
	return &CountryHandler{countries: countries}
}

// HandleList returns the catalog, optionally filtered.
//
//	GET /api/countries?continent=Europe&search=united
func (h *CountryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	countries, err := h.countries.List(r.Context(), q.Get("continent"), q.Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countries)
}

// HandleGet returns one country.
//
//	GET /api/countries/{countryID}
func (h *CountryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	country, err := h.countries.GetByID(r.Context(), chi.URLParam(r, "countryID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, country)
}
