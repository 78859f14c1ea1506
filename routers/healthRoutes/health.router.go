package healthRoutes

import (
	"github.com/gofiber/fiber/v2"

	healthController "kclms/controllers/health"
)

// SetupHealthRoutes sets up the health check route
func SetupHealthRoutes(app *fiber.App, ctl *healthController.Controller) {
	app.Get("/health", ctl.Check)
}
