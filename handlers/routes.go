// handlers/routes.go
package handlers

import (
	"esports-registration/middleware"
	"esports-registration/services"

	"github.com/gofiber/fiber/v2"
)

func SetupHealthRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func SetupCatalogRoutes(app *fiber.App, catalogService *services.CatalogService) {
	app.Get("/games", catalogService.GetAllGames)
	app.Get("/games/:id", catalogService.GetGameByID)
	app.Get("/tournaments", catalogService.GetTournaments)
	app.Get("/tournaments/:id", catalogService.GetTournamentByID)
}

// SetupRegistrationRoutes exposes the registration wizard; the session id is the only credential.
func SetupRegistrationRoutes(app *fiber.App, registrationService *services.RegistrationService) {
	sessions := app.Group("/registrations/sessions")

	sessions.Post("/", registrationService.CreateSession)
	sessions.Get("/:id", registrationService.GetSession)
	sessions.Patch("/:id/info", registrationService.UpdateInfo)
	sessions.Post("/:id/continue", registrationService.Continue)
	sessions.Post("/:id/back", registrationService.Back)
	sessions.Post("/:id/screenshot", registrationService.AttachScreenshot)
	sessions.Post("/:id/submit", registrationService.Submit)
	sessions.Post("/:id/reset", registrationService.Reset)
}

func SetupContactRoutes(app *fiber.App, contactService *services.ContactService) {
	app.Post("/contact", contactService.SendMessage)
}

// SetupAdminRoutes requires gateway user context and an admin marker.
func SetupAdminRoutes(app *fiber.App, adminService *services.AdminService, admins middleware.AdminChecker) {
	admin := app.Group("/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin(admins))

	admin.Post("/orphans/sweep", adminService.SweepOrphans)
}
