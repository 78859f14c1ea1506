package certificateValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"kclms/middleware"
	"kclms/validators"
)

// IssueRequest is the validated body for certificate issuance.
//
// Course completion is a documented precondition of issuance; it is the
// caller's responsibility, not validated here.
type IssueRequest struct {
	UserID   uint `json:"userId" validate:"required"`
	CourseID uint `json:"courseId" validate:"required"`
}

// Issue validates the certificate issuance request
func Issue() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(IssueRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validators.Validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.Messages(err))
		}

		c.Locals("validatedCertificate", reqData)
		return c.Next()
	}
}

// List validates the userId query parameter for certificate listing
func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDStr := strings.TrimSpace(c.Query("userId"))
		if userIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User ID required!", nil)
		}

		userID, err := strconv.Atoi(userIDStr)
		if err != nil || userID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}

		c.Locals("certificateUserID", uint(userID))
		return c.Next()
	}
}
