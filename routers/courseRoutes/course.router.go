package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	courseController "kclms/controllers/course"
	"kclms/middleware"
	"kclms/models"
	courseValidator "kclms/validators/course"
)

// SetupCourseRoutes sets up catalog and admin course routes. Catalog reads
// are public; mutations require an admin or trainer token.
func SetupCourseRoutes(app *fiber.App, ctl *courseController.Controller, jwtSecret string) {
	courseGroup := app.Group("/api/courses")

	courseGroup.Get("/", courseValidator.List(), ctl.List)
	courseGroup.Get("/:id", courseValidator.GetDetail(), ctl.GetDetail)

	auth := middleware.JWTMiddleware(jwtSecret)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleTrainer)

	courseGroup.Post("/", auth, staff, courseValidator.Create(), ctl.Create)
	courseGroup.Put("/:id", auth, staff, courseValidator.Update(), ctl.Update)
	courseGroup.Delete("/:id", auth, staff, courseValidator.Delete(), ctl.Delete)
}
