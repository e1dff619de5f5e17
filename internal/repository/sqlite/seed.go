package sqlite

import (
	"context"
	"fmt"

	"github.com/joaovr/travel-map-tracker/internal/model"
)

// defaultCountries is the built-in catalog. Countries are never created
// through the API, so a fresh database gets this list at startup; an
// existing database keeps whatever it has (the seeder is a no-op once the
// table is non-empty, so operator edits survive restarts).
var defaultCountries = []model.Country{
	{Name: "Argentina", Code: "ARG", Continent: "South America", Flag: "🇦🇷", Capital: "Buenos Aires", Population: 45376763},
	{Name: "Australia", Code: "AUS", Continent: "Oceania", Flag: "🇦🇺", Capital: "Canberra", Population: 25687041},
	{Name: "Brazil", Code: "BRA", Continent: "South America", Flag: "🇧🇷", Capital: "Brasília", Population: 212559409},
	{Name: "Canada", Code: "CAN", Continent: "North America", Flag: "🇨🇦", Capital: "Ottawa", Population: 38005238},
	{Name: "Chile", Code: "CHL", Continent: "South America", Flag: "🇨🇱", Capital: "Santiago", Population: 19116209},
	{Name: "China", Code: "CHN", Continent: "Asia", Flag: "🇨🇳", Capital: "Beijing", Population: 1410929362},
	{Name: "Colombia", Code: "COL", Continent: "South America", Flag: "🇨🇴", Capital: "Bogotá", Population: 50882884},
	{Name: "Egypt", Code: "EGY", Continent: "Africa", Flag: "🇪🇬", Capital: "Cairo", Population: 102334403},
	{Name: "France", Code: "FRA", Continent: "Europe", Flag: "🇫🇷", Capital: "Paris", Population: 67391582},
	{Name: "Germany", Code: "DEU", Continent: "Europe", Flag: "🇩🇪", Capital: "Berlin", Population: 83240525},
	{Name: "Greece", Code: "GRC", Continent: "Europe", Flag: "🇬🇷", Capital: "Athens", Population: 10715549},
	{Name: "India", Code: "IND", Continent: "Asia", Flag: "🇮🇳", Capital: "New Delhi", Population: 1380004385},
	{Name: "Indonesia", Code: "IDN", Continent: "Asia", Flag: "🇮🇩", Capital: "Jakarta", Population: 273523621},
	{Name: "Italy", Code: "ITA", Continent: "Europe", Flag: "🇮🇹", Capital: "Rome", Population: 59554023},
	{Name: "Japan", Code: "JPN", Continent: "Asia", Flag: "🇯🇵", Capital: "Tokyo", Population: 125836021},
	{Name: "Kenya", Code: "KEN", Continent: "Africa", Flag: "🇰🇪", Capital: "Nairobi", Population: 53771300},
	{Name: "Mexico", Code: "MEX", Continent: "North America", Flag: "🇲🇽", Capital: "Mexico City", Population: 128932753},
	{Name: "Morocco", Code: "MAR", Continent: "Africa", Flag: "🇲🇦", Capital: "Rabat", Population: 36910558},
	{Name: "Netherlands", Code: "NLD", Continent: "Europe", Flag: "🇳🇱", Capital: "Amsterdam", Population: 17441139},
	{Name: "New Zealand", Code: "NZL", Continent: "Oceania", Flag: "🇳🇿", Capital: "Wellington", Population: 5084300},
	{Name: "Nigeria", Code: "NGA", Continent: "Africa", Flag: "🇳🇬", Capital: "Abuja", Population: 206139587},
	{Name: "Norway", Code: "NOR", Continent: "Europe", Flag: "🇳🇴", Capital: "Oslo", Population: 5379475},
	{Name: "Peru", Code: "PER", Continent: "South America", Flag: "🇵🇪", Capital: "Lima", Population: 32971846},
	{Name: "Portugal", Code: "PRT", Continent: "Europe", Flag: "🇵🇹", Capital: "Lisbon", Population: 10305564},
	{Name: "South Africa", Code: "ZAF", Continent: "Africa", Flag: "🇿🇦", Capital: "Pretoria", Population: 59308690},
	{Name: "South Korea", Code: "KOR", Continent: "Asia", Flag: "🇰🇷", Capital: "Seoul", Population: 51836239},
	{Name: "Spain", Code: "ESP", Continent: "Europe", Flag: "🇪🇸", Capital: "Madrid", Population: 47351567},
	{Name: "Sweden", Code: "SWE", Continent: "Europe", Flag: "🇸🇪", Capital: "Stockholm", Population: 10353442},
	{Name: "Thailand", Code: "THA", Continent: "Asia", Flag: "🇹🇭", Capital: "Bangkok", Population: 69799978},
	{Name: "Turkey", Code: "TUR", Continent: "Asia", Flag: "🇹🇷", Capital: "Ankara", Population: 84339067},
	{Name: "United Kingdom", Code: "GBR", Continent: "Europe", Flag: "🇬🇧", Capital: "London", Population: 67215293},
	{Name: "United States", Code: "USA", Continent: "North America", Flag: "🇺🇸", Capital: "Washington, D.C.", Population: 331501080},
	{Name: "Vietnam", Code: "VNM", Continent: "Asia", Flag: "🇻🇳", Capital: "Hanoi", Population: 97338583},
}

// SeedCountries populates the country catalog if — and only if — the table
// is empty. Returns the number of rows inserted.
func (db *DB) SeedCountries(ctx context.Context) (int, error) {
	count, err := db.CountCountries(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for i := range defaultCountries {
		// Copy so the package-level slice never carries generated IDs.
		c := defaultCountries[i]
		if err := db.CreateCountry(ctx, &c); err != nil {
			return 0, fmt.Errorf("sqlite: seeding country %s: %w", c.Code, err)
		}
	}

	return len(defaultCountries), nil
}
