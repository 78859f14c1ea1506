package certificateController

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kclms/middleware"
	certificate "kclms/services/certificate"
	certificateValidator "kclms/validators/certificate"

	"kclms/models"
)

// Controller exposes certificate issuance and listing.
type Controller struct {
	db     *gorm.DB
	issuer *certificate.Issuer
}

func New(db *gorm.DB, issuer *certificate.Issuer) *Controller {
	return &Controller{db: db, issuer: issuer}
}

// Issue issues (or returns) the certificate for (userId, courseId). Course
// completion is the caller's precondition; callers reach this endpoint
// through the trainer/admin role gate.
func (ctl *Controller) Issue(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCertificate").(*certificateValidator.IssueRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	cert, created, err := ctl.issuer.Issue(c.UserContext(), reqData.UserID, reqData.CourseID)
	if err != nil {
		if errors.Is(err, certificate.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User or course not found!", nil)
		}
		log.Printf("Error issuing certificate: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	if created {
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", cert)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued!", cert)
}

// List returns the user's certificates, newest first.
func (ctl *Controller) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("certificateUserID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User ID required!", nil)
	}

	var certificates []models.Certificate
	if err := ctl.db.
		Where("user_id = ?", userID).
		Preload("Course").
		Order("issued_at desc").
		Find(&certificates).Error; err != nil {
		log.Printf("Error fetching certificates: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certificates)
}
