package services

import (
	"context"
	"errors"
	"log"

	"esports-registration/models"
	"esports-registration/registration"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/cases"
)

// CatalogReader is the catalog side of the Directory.
type CatalogReader interface {
	registration.Catalog
	GetGame(ctx context.Context, id string) (models.Game, error)
	GetTournament(ctx context.Context, id string) (models.Tournament, error)
}

// CatalogService serves the public game and tournament listings.
type CatalogService struct {
	Catalog CatalogReader
}

func NewCatalogService(catalog CatalogReader) *CatalogService {
	return &CatalogService{Catalog: catalog}
}

// GetAllGames returns every game in catalog order.
func (s *CatalogService) GetAllGames(c *fiber.Ctx) error {
	games, err := s.Catalog.ListGames(c.UserContext())
	if err != nil {
		log.Printf("❌ [CATALOG] %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch games"})
	}
	return c.JSON(games)
}

func (s *CatalogService) GetGameByID(c *fiber.Ctx) error {
	game, err := s.Catalog.GetGame(c.UserContext(), c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
	}
	if err != nil {
		log.Printf("❌ [CATALOG] %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch game"})
	}
	return c.JSON(game)
}

// GetTournaments lists tournaments, optionally narrowed with ?game=<name>.
// The game match ignores case; "all" means no filter.
func (s *CatalogService) GetTournaments(c *fiber.Ctx) error {
	tournaments, err := s.Catalog.ListTournaments(c.UserContext())
	if err != nil {
		log.Printf("❌ [CATALOG] %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch tournaments"})
	}
	return c.JSON(filterByGameFold(tournaments, c.Query("game")))
}

func (s *CatalogService) GetTournamentByID(c *fiber.Ctx) error {
	tournament, err := s.Catalog.GetTournament(c.UserContext(), c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tournament not found"})
	}
	if err != nil {
		log.Printf("❌ [CATALOG] %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch tournament"})
	}
	return c.JSON(tournament)
}

func filterByGameFold(tournaments []models.Tournament, game string) []models.Tournament {
	out := make([]models.Tournament, 0, len(tournaments))
	if game == "" || game == "all" {
		return append(out, tournaments...)
	}
	fold := cases.Fold()
	want := fold.String(game)
	for _, t := range tournaments {
		if fold.String(t.Game) == want {
			out = append(out, t)
		}
	}
	return out
}
