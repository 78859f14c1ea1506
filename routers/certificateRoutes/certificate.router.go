package certificateRoutes

import (
	"github.com/gofiber/fiber/v2"

	certificateController "kclms/controllers/certificate"
	"kclms/middleware"
	"kclms/models"
	certificateValidator "kclms/validators/certificate"
)

// SetupCertificateRoutes sets up certificate routes. Issuance trusts its
// caller on course completion, so it sits behind the trainer/admin role gate.
func SetupCertificateRoutes(app *fiber.App, ctl *certificateController.Controller, jwtSecret string) {
	certGroup := app.Group("/api/certificates")

	auth := middleware.JWTMiddleware(jwtSecret)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleTrainer)

	certGroup.Post("/", auth, staff, certificateValidator.Issue(), ctl.Issue)
	certGroup.Get("/", auth, certificateValidator.List(), ctl.List)
}
