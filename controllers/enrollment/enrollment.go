package enrollmentController

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kclms/middleware"
	"kclms/models"
	"kclms/services/notify"
	enrollmentValidator "kclms/validators/enrollment"
)

// Controller handles the enrollment workflow.
type Controller struct {
	db       *gorm.DB
	notifier *notify.Dispatcher
}

func New(db *gorm.DB, notifier *notify.Dispatcher) *Controller {
	return &Controller{db: db, notifier: notifier}
}

// Enroll creates an ACTIVE enrollment for (userId, courseId). The operation
// is idempotent from the caller's perspective: repeated calls after a
// success return the same conflict, never a duplicate row. The enrollment
// notification is best-effort and attempted only after the row is committed.
func (ctl *Controller) Enroll(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedEnrollment").(*enrollmentValidator.CreateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := ctl.db.First(&user, reqData.UserID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var course models.Course
	if err := ctl.db.Where("id = ? AND published = ?", reqData.CourseID, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existing models.Enrollment
	err := ctl.db.Where("user_id = ? AND course_id = ?", reqData.UserID, reqData.CourseID).First(&existing).Error
	if err == nil {
		if existing.Status == models.EnrollmentActive {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Already enrolled in this course", nil)
		}
		// A cancelled enrollment occupies the unique (user, course) slot;
		// re-enrolling reactivates it instead of inserting a second row.
		existing.Status = models.EnrollmentActive
		if err := ctl.db.Save(&existing).Error; err != nil {
			log.Printf("Error reactivating enrollment: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create enrollment!", nil)
		}
		ctl.sendEnrollmentNotification(c, user, course)
		existing.User = user
		existing.Course = course
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error checking existing enrollment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create enrollment!", nil)
	}

	enrollment := models.Enrollment{
		UserID:   reqData.UserID,
		CourseID: reqData.CourseID,
		Status:   models.EnrollmentActive,
	}
	if err := ctl.db.Create(&enrollment).Error; err != nil {
		// Constraint violations mean a concurrent writer got there first:
		// already in the desired state, not a transient error.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Already enrolled in this course", nil)
		}
		log.Printf("Error creating enrollment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create enrollment!", nil)
	}

	ctl.sendEnrollmentNotification(c, user, course)

	enrollment.User = user
	enrollment.Course = course
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

// sendEnrollmentNotification runs after the enrollment commit. Delivery
// failure is logged and swallowed; the enrollment outcome stands either way.
func (ctl *Controller) sendEnrollmentNotification(c *fiber.Ctx, user models.User, course models.Course) {
	recipient := notify.Recipient{Name: user.Name, Email: user.Email, Phone: user.Phone}
	data := notify.TemplateData{Name: user.Name, CourseTitle: course.Title}

	if !ctl.notifier.Send(c.UserContext(), notify.ChannelEmail, recipient, notify.TemplateEnrollment, data) {
		log.Printf("Enrollment notification email not delivered for user %d course %d", user.ID, course.ID)
	}
	if user.Phone != "" {
		if !ctl.notifier.Send(c.UserContext(), notify.ChannelWhatsApp, recipient, notify.TemplateEnrollment, data) {
			log.Printf("Enrollment notification whatsapp message not delivered for user %d course %d", user.ID, course.ID)
		}
	}
}

// List returns the user's enrollments with nested course and creator,
// newest first.
func (ctl *Controller) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("enrollmentUserID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User ID required!", nil)
	}

	var enrollments []models.Enrollment
	if err := ctl.db.
		Where("user_id = ?", userID).
		Preload("Course").
		Preload("Course.Creator").
		Order("created_at desc").
		Find(&enrollments).Error; err != nil {
		log.Printf("Error fetching enrollments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}
