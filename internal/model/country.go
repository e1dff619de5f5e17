package model

// Country is a catalog record. The API never creates or mutates countries —
// the table is seeded at startup and read-only from then on.
//
// Code is the ISO 3166-1 alpha-3 code ("BRA", "JPN"). Both name and code
// carry UNIQUE constraints in the database.
type Country struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	Continent  string `json:"continent"`
	Flag       string `json:"flag,omitempty"` // emoji glyph, e.g. "🇧🇷"
	Capital    string `json:"capital,omitempty"`
	Population int64  `json:"population,omitempty"`
}
