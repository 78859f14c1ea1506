package paymentValidator

import (
	"github.com/gofiber/fiber/v2"

	"kclms/middleware"
	"kclms/validators"
)

// InitiateRequest is the validated body for payment initiation.
type InitiateRequest struct {
	UserID   uint `json:"userId" validate:"required"`
	CourseID uint `json:"courseId" validate:"required"`
}

// Initiate validates the payment initiation request
func Initiate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(InitiateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validators.Validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.Messages(err))
		}

		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}
