package paymentRoutes

import (
	"github.com/gofiber/fiber/v2"

	paymentController "kclms/controllers/payment"
	"kclms/middleware"
	paymentValidator "kclms/validators/payment"
)

// SetupPaymentRoutes sets up payment initiation and the processor webhook.
// The webhook route carries no auth middleware; signature verification is
// its authentication.
func SetupPaymentRoutes(app *fiber.App, ctl *paymentController.Controller, jwtSecret string) {
	paymentGroup := app.Group("/api/payments")
	paymentGroup.Post("/", middleware.JWTMiddleware(jwtSecret), paymentValidator.Initiate(), ctl.Initiate)

	app.Post("/api/webhooks/stripe", ctl.StripeWebhook)
}
