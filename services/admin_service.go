package services

import (
	"errors"
	"log"

	"esports-registration/workers"

	"github.com/gofiber/fiber/v2"
)

// AdminService exposes maintenance operations to admins.
type AdminService struct {
	Sweeper *workers.OrphanSweeper
}

func NewAdminService(sweeper *workers.OrphanSweeper) *AdminService {
	return &AdminService{Sweeper: sweeper}
}

// SweepOrphans runs the screenshot reconciliation now and returns its report.
func (s *AdminService) SweepOrphans(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	log.Printf("🧹 [ADMIN] Orphan sweep requested by %s", userID)

	report, err := s.Sweeper.Sweep(c.UserContext())
	if errors.Is(err, workers.ErrSweepRunning) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		log.Printf("❌ [ADMIN] Orphan sweep failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
