package paymentController

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"gorm.io/gorm"

	"kclms/config"
	"kclms/middleware"
	"kclms/models"
	"kclms/services/notify"
	paymentValidator "kclms/validators/payment"
)

// Controller handles payment initiation and inbound processor events.
type Controller struct {
	db            *gorm.DB
	notifier      *notify.Dispatcher
	stripe        *client.API
	webhookSecret string
}

func New(db *gorm.DB, cfg *config.Config, notifier *notify.Dispatcher) *Controller {
	ctl := &Controller{
		db:            db,
		notifier:      notifier,
		webhookSecret: cfg.StripeWebhookSecret,
	}
	if cfg.StripeSecretKey != "" {
		ctl.stripe = &client.API{}
		ctl.stripe.Init(cfg.StripeSecretKey, nil)
	}
	return ctl
}

// Initiate creates a processor payment intent and a PENDING Payment row.
// Only the webhook receiver transitions the row out of PENDING.
func (ctl *Controller) Initiate(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPayment").(*paymentValidator.InitiateRequest)
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

	if ctl.stripe == nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Payment processor not configured!", nil)
	}

	description := "Enrollment: " + course.Title

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(course.Price),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Description: stripe.String(description),
	}
	params.AddMetadata("user_id", strconv.FormatUint(uint64(user.ID), 10))
	params.AddMetadata("course_id", strconv.FormatUint(uint64(course.ID), 10))

	intent, err := ctl.stripe.PaymentIntents.New(params)
	if err != nil {
		log.Printf("Error creating payment intent: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to initiate payment!", nil)
	}

	payment := models.Payment{
		UserID:          user.ID,
		CourseID:        course.ID,
		StripePaymentID: intent.ID,
		Amount:          course.Price,
		Currency:        string(stripe.CurrencyUSD),
		Description:     description,
		Status:          models.PaymentPending,
	}
	if err := ctl.db.Create(&payment).Error; err != nil {
		log.Printf("Error saving payment record: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to initiate payment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment initiated successfully!", fiber.Map{
		"payment":       payment,
		"client_secret": intent.ClientSecret,
	})
}
