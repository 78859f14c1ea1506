package enrollmentRoutes

import (
	"github.com/gofiber/fiber/v2"

	enrollmentController "kclms/controllers/enrollment"
	"kclms/middleware"
	enrollmentValidator "kclms/validators/enrollment"
)

// SetupEnrollmentRoutes sets up enrollment routes
func SetupEnrollmentRoutes(app *fiber.App, ctl *enrollmentController.Controller, jwtSecret string) {
	enrollGroup := app.Group("/api/enrollments")

	auth := middleware.JWTMiddleware(jwtSecret)

	enrollGroup.Post("/", auth, enrollmentValidator.Create(), ctl.Enroll)
	enrollGroup.Get("/", auth, enrollmentValidator.List(), ctl.List)
}
