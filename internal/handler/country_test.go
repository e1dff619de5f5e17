package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaovr/travel-map-tracker/internal/model"
)

func TestHandleCountryList(t *testing.T) {
	env := newTestEnv(t)
	env.seedCountry(t, "Brazil", "BRA", "South America")
	env.seedCountry(t, "Japan", "JPN", "Asia")
	env.seedCountry(t, "France", "FRA", "Europe")

	rec := env.do(t, http.MethodGet, "/api/countries", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var countries []model.Country
	decodeJSON(t, rec, &countries)
	assert.Len(t, countries, 3)
}

func TestHandleCountryList_Filters(t *testing.T) {
	env := newTestEnv(t)
	env.seedCountry(t, "United States", "USA", "North America")
	env.seedCountry(t, "United Kingdom", "GBR", "Europe")
	env.seedCountry(t, "Japan", "JPN", "Asia")

	var countries []model.Country

	rec := env.do(t, http.MethodGet, "/api/countries?continent=Europe", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &countries)
	require.Len(t, countries, 1)
	assert.Equal(t, "GBR", countries[0].Code)

	rec = env.do(t, http.MethodGet, "/api/countries?search=united", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &countries)
	assert.Len(t, countries, 2)
}

func TestHandleCountryGet(t *testing.T) {
	env := newTestEnv(t)
	brazil := env.seedCountry(t, "Brazil", "BRA", "South America")

	rec := env.do(t, http.MethodGet, "/api/countries/"+brazil.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Country
	decodeJSON(t, rec, &got)
	assert.Equal(t, "Brazil", got.Name)
}

func TestHandleCountryGet_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/countries/no-such-id", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var errResp errorResponse
	decodeJSON(t, rec, &errResp)
	assert.Equal(t, "not_found", errResp.Error)
}
