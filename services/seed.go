package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"esports-registration/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogSeed is the games/tournaments data loaded at startup.
type CatalogSeed struct {
	Games       []models.Game       `json:"games"`
	Tournaments []models.Tournament `json:"tournaments"`
}

// LoadCatalogSeed reads a CatalogSeed from a JSON file.
func LoadCatalogSeed(path string) (CatalogSeed, error) {
	var seed CatalogSeed
	data, err := os.ReadFile(path)
	if err != nil {
		return seed, fmt.Errorf("failed to read catalog seed: %w", err)
	}
	if err := json.Unmarshal(data, &seed); err != nil {
		return seed, fmt.Errorf("invalid catalog seed %s: %w", path, err)
	}
	return seed, nil
}

// Prepare fills missing ids and sort order, then checks that every
// tournament is valid and belongs to a seeded game.
func (s CatalogSeed) Prepare() (CatalogSeed, error) {
	out := CatalogSeed{
		Games:       make([]models.Game, len(s.Games)),
		Tournaments: make([]models.Tournament, len(s.Tournaments)),
	}
	copy(out.Games, s.Games)
	copy(out.Tournaments, s.Tournaments)

	names := make(map[string]bool, len(out.Games))
	ids := make(map[string]bool, len(out.Games))
	for i := range out.Games {
		g := &out.Games[i]
		if g.Name == "" {
			return out, fmt.Errorf("game #%d has no name", i+1)
		}
		if g.ID == "" {
			g.ID = slug.Make(g.Name)
		}
		if ids[g.ID] || names[g.Name] {
			return out, fmt.Errorf("duplicate game %q", g.Name)
		}
		ids[g.ID], names[g.Name] = true, true
		g.SortOrder = i
	}

	tids := make(map[string]bool, len(out.Tournaments))
	for i := range out.Tournaments {
		t := &out.Tournaments[i]
		if t.ID == "" {
			t.ID = slug.Make(t.Title)
		}
		if t.Status == "" {
			t.Status = models.TournamentUpcoming
		}
		if tids[t.ID] {
			return out, fmt.Errorf("duplicate tournament id %q", t.ID)
		}
		tids[t.ID] = true
		if err := t.Validate(); err != nil {
			return out, err
		}
		if !names[t.Game] {
			return out, fmt.Errorf("tournament %q references unknown game %q", t.ID, t.Game)
		}
		t.SortOrder = i
	}
	return out, nil
}

// SeedCatalog upserts the catalog; existing rows are overwritten.
func SeedCatalog(ctx context.Context, db *gorm.DB, seed CatalogSeed) error {
	prepared, err := seed.Prepare()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := func() *gorm.DB {
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			})
		}
		if len(prepared.Games) > 0 {
			if err := upsert().Create(&prepared.Games).Error; err != nil {
				return fmt.Errorf("failed to seed games: %w", err)
			}
		}
		if len(prepared.Tournaments) > 0 {
			if err := upsert().Create(&prepared.Tournaments).Error; err != nil {
				return fmt.Errorf("failed to seed tournaments: %w", err)
			}
		}
		log.Printf("✅ Seeded %d game(s) and %d tournament(s)", len(prepared.Games), len(prepared.Tournaments))
		return nil
	})
}

// DefaultCatalog is the launch line-up.
func DefaultCatalog() CatalogSeed {
	const img = "https://images.pexels.com/photos/%s?auto=compress&cs=tinysrgb&w=%s&fit=crop"
	photo := func(path, size string) string { return fmt.Sprintf(img, path, size) }

	return CatalogSeed{
		Games: []models.Game{
			{ID: "bgmi", Name: "BGMI", Category: "Battle Royale", Players: "2.5M+", TournamentsActive: "15 Active",
				Description: "Battlegrounds Mobile India - The ultimate battle royale experience with 100 players fighting for survival",
				ImageURL:    photo("7915437/pexels-photo-7915437.jpeg", "600&h=400"),
				LogoURL:     photo("163064/play-stone-network-networked-interactive-163064.jpeg", "100&h=100")},
			{ID: "pubg", Name: "PUBG Mobile", Category: "Battle Royale", Players: "3.2M+", TournamentsActive: "12 Active",
				Description: "PlayerUnknown's Battlegrounds - Survive and be the last one standing in this intense battle royale",
				ImageURL:    photo("3165335/pexels-photo-3165335.jpeg", "600&h=400"),
				LogoURL:     photo("442576/pexels-photo-442576.jpeg", "100&h=100")},
			{ID: "freefire", Name: "Free Fire", Category: "Battle Royale", Players: "1.8M+", TournamentsActive: "8 Active",
				Description: "Fast-paced 10-minute battle royale game with unique characters and special abilities",
				ImageURL:    photo("442576/pexels-photo-442576.jpeg", "600&h=400"),
				LogoURL:     photo("1029604/pexels-photo-1029604.jpeg", "100&h=100")},
			{ID: "valorant", Name: "Valorant", Category: "FPS", Players: "1.2M+", TournamentsActive: "6 Active",
				Description: "Tactical 5v5 first-person shooter with unique agent abilities and strategic gameplay",
				ImageURL:    photo("3945313/pexels-photo-3945313.jpeg", "600&h=400"),
				LogoURL:     photo("3945313/pexels-photo-3945313.jpeg", "100&h=100")},
			{ID: "codm", Name: "Call of Duty Mobile", Category: "FPS", Players: "900K+", TournamentsActive: "5 Active",
				Description: "Action-packed mobile FPS with multiple game modes including Battle Royale and Multiplayer",
				ImageURL:    photo("3945313/pexels-photo-3945313.jpeg", "600&h=400"),
				LogoURL:     photo("3165335/pexels-photo-3165335.jpeg", "100&h=100")},
			{ID: "minecraft", Name: "Minecraft", Category: "Sandbox", Players: "500K+", TournamentsActive: "3 Active",
				Description: "Creative building and survival game with endless possibilities and competitive building contests",
				ImageURL:    photo("1029604/pexels-photo-1029604.jpeg", "600&h=400"),
				LogoURL:     photo("1029604/pexels-photo-1029604.jpeg", "100&h=100")},
		},
		Tournaments: []models.Tournament{
			{ID: "bgmi-championship", Title: "BGMI Championship 2025", Game: "BGMI", Date: "2025-02-15",
				Prize: "₹5,00,000", EntryFee: "₹500", MaxPlayers: 100, RegisteredPlayers: 67},
			{ID: "bgmi-weekly", Title: "BGMI Weekly Challenge", Game: "BGMI", Date: "2025-02-08",
				Prize: "₹50,000", EntryFee: "₹100", MaxPlayers: 64, RegisteredPlayers: 32},
			{ID: "pubg-pro-league", Title: "PUBG Mobile Pro League", Game: "PUBG Mobile", Date: "2025-02-20",
				Prize: "₹3,00,000", EntryFee: "₹300", MaxPlayers: 80, RegisteredPlayers: 45},
			{ID: "pubg-squad-battle", Title: "PUBG Squad Battle", Game: "PUBG Mobile", Date: "2025-02-12",
				Prize: "₹1,00,000", EntryFee: "₹200", MaxPlayers: 48, RegisteredPlayers: 28},
			{ID: "freefire-masters", Title: "Free Fire Masters", Game: "Free Fire", Date: "2025-02-25",
				Prize: "₹2,00,000", EntryFee: "₹200", MaxPlayers: 60, RegisteredPlayers: 38},
			{ID: "freefire-clash", Title: "Free Fire Clash Royale", Game: "Free Fire", Date: "2025-02-18",
				Prize: "₹75,000", EntryFee: "₹150", MaxPlayers: 40, RegisteredPlayers: 22},
			{ID: "valorant-invitational", Title: "Valorant Invitational", Game: "Valorant", Date: "2025-03-01",
				Prize: "₹4,00,000", EntryFee: "₹400", MaxPlayers: 40, RegisteredPlayers: 28},
			{ID: "codm-tournament", Title: "COD Mobile Championship", Game: "Call of Duty Mobile", Date: "2025-03-05",
				Prize: "₹2,50,000", EntryFee: "₹250", MaxPlayers: 64, RegisteredPlayers: 41},
		},
	}
}
