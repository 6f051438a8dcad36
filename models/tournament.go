package models

import (
	"fmt"
	"time"
)

const (
	TournamentUpcoming  = "upcoming"
	TournamentLive      = "live"
	TournamentCompleted = "completed"
)

// DateLayout is the calendar-date format used for Tournament.Date.
const DateLayout = "2006-01-02"

// Tournament belongs to a Game by name (Tournament.Game == Game.Name).
type Tournament struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Title    string `json:"title" gorm:"not null"`
	Game     string `json:"game" gorm:"not null;index"`
	Date     string `json:"date"`      // YYYY-MM-DD
	Prize    string `json:"prize"`     // display currency, e.g. "₹5,00,000"
	EntryFee string `json:"entry_fee"` // display currency, e.g. "₹500"

	MaxPlayers int `json:"max_players" gorm:"default:0"`
	// Not incremented by registrations; display only.
	RegisteredPlayers int `json:"registered_players" gorm:"default:0"`

	Status    string `json:"status" gorm:"default:'upcoming'"` // upcoming | live | completed
	QRCodeURL string `json:"qr_code_url,omitempty"`            // payment QR image
	SortOrder int    `json:"sort_order" gorm:"column:sort_order;default:0"`

	Timestamps
}

// StartsOn parses Date.
func (t Tournament) StartsOn() (time.Time, error) {
	return time.Parse(DateLayout, t.Date)
}

// Validate checks the record-level invariants of a tournament.
func (t Tournament) Validate() error {
	if t.Title == "" || t.Game == "" {
		return fmt.Errorf("tournament %q: title and game are required", t.ID)
	}
	if _, err := t.StartsOn(); err != nil {
		return fmt.Errorf("tournament %q: invalid date %q (use YYYY-MM-DD)", t.ID, t.Date)
	}
	if t.MaxPlayers < 0 {
		return fmt.Errorf("tournament %q: max_players must be non-negative", t.ID)
	}
	if t.RegisteredPlayers < 0 || t.RegisteredPlayers > t.MaxPlayers {
		return fmt.Errorf("tournament %q: registered_players must be between 0 and %d", t.ID, t.MaxPlayers)
	}
	switch t.Status {
	case TournamentUpcoming, TournamentLive, TournamentCompleted:
	default:
		return fmt.Errorf("tournament %q: unknown status %q", t.ID, t.Status)
	}
	return nil
}
