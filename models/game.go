// models/game.go
package models

// Game is read-only reference data for the registration flow.
type Game struct {
	ID          string `json:"id" gorm:"primaryKey"` // stable slug, e.g. "bgmi"
	Name        string `json:"name" gorm:"not null;uniqueIndex"`
	Description string `json:"description"`
	ImageURL    string `json:"image"`
	LogoURL     string `json:"logo"`
	Category    string `json:"category"` // e.g. "Battle Royale"

	// Display-only counters, not authoritative
	Players           string `json:"players"`
	TournamentsActive string `json:"tournaments_active"`

	SortOrder int `json:"sort_order" gorm:"column:sort_order;default:0"`

	Timestamps
}
