package paymentController

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"kclms/models"
	"kclms/services/notify"
)

// paymentObject is the slice of the processor's event object this receiver
// needs: the transaction id.
type paymentObject struct {
	ID string `json:"id"`
}

// StripeWebhook receives asynchronous payment events. Delivery is
// at-least-once, so the handler must be safe under replay: terminal payment
// states are never transitioned twice and notifications are never re-sent.
// Only signature failure rejects; everything syntactically valid is
// acknowledged unless a transient persistence error makes redelivery useful.
func (ctl *Controller) StripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing stripe-signature header"})
	}

	event, err := webhook.ConstructEvent(payload, signature, ctl.webhookSecret)
	if err != nil {
		// Forged or corrupted events must not reach persistence. The sender
		// retrying the same signature would fail identically.
		log.Printf("Webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Webhook signature verification failed"})
	}

	done, err := ctl.recordEvent(event, payload)
	if err != nil {
		log.Printf("Error recording webhook event %s: %v", event.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook processing failed"})
	}
	if done {
		log.Printf("Event %s already processed, acknowledging duplicate delivery", event.ID)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
	}

	switch event.Type {
	case "payment_intent.succeeded":
		err = ctl.handlePaymentSucceeded(c.UserContext(), event)
	case "payment_intent.payment_failed":
		err = ctl.handlePaymentFailed(event)
	default:
		// Forward-compatibility: unknown event kinds are not errors.
		log.Printf("Unhandled event type %s", event.Type)
	}
	if err != nil {
		log.Printf("Error processing webhook event %s: %v", event.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook processing failed"})
	}

	ctl.markEventProcessed(event.ID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}

// recordEvent persists the raw event for audit and replay detection. The
// unique (provider, provider_event_id) constraint is the dedup arbiter.
// A duplicate-key hit alone is not enough to drop the delivery: a row with
// a nil ProcessedAt was recorded by a delivery that failed mid-processing
// and answered 500, so the redelivery must run the handlers again. The
// terminal-status guards in the handlers make reprocessing safe.
func (ctl *Controller) recordEvent(event stripe.Event, payload []byte) (done bool, err error) {
	record := models.WebhookEvent{
		Provider:        "stripe",
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		Payload:         datatypes.JSON(payload),
	}
	if err := ctl.db.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.WebhookEvent
			if ferr := ctl.db.Where("provider = ? AND provider_event_id = ?", "stripe", event.ID).
				First(&existing).Error; ferr != nil {
				return false, ferr
			}
			return existing.ProcessedAt != nil, nil
		}
		return false, err
	}
	return false, nil
}

func (ctl *Controller) markEventProcessed(eventID string) {
	now := time.Now()
	if err := ctl.db.Model(&models.WebhookEvent{}).
		Where("provider = ? AND provider_event_id = ?", "stripe", eventID).
		Update("processed_at", now).Error; err != nil {
		log.Printf("Error marking event %s processed: %v", eventID, err)
	}
}

// handlePaymentSucceeded transitions the referenced payment PENDING ->
// SUCCEEDED and triggers a confirmation notification. A nil return means
// acknowledge; a non-nil return surfaces as 500 so the processor redelivers.
func (ctl *Controller) handlePaymentSucceeded(ctx context.Context, event stripe.Event) error {
	var object paymentObject
	if err := json.Unmarshal(event.Data.Raw, &object); err != nil || object.ID == "" {
		// Redelivery of a malformed object cannot help; acknowledge.
		log.Printf("Event %s carries no usable payment object", event.ID)
		return nil
	}

	var payment models.Payment
	err := ctl.db.Preload("User").Where("stripe_payment_id = ?", object.ID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No originating record to transition; a payment cannot be created
		// retroactively from a status event.
		log.Printf("Received %s for unknown payment %s", event.Type, object.ID)
		return nil
	}
	if err != nil {
		return err
	}

	if payment.Terminal() {
		log.Printf("Payment %s already %s, treating event %s as duplicate delivery", object.ID, payment.Status, event.ID)
		return nil
	}

	transitioned, err := ctl.transitionPayment(object.ID, models.PaymentSucceeded)
	if err != nil {
		return err
	}
	if !transitioned {
		// A concurrent writer settled the payment between the read above and
		// the conditional update; it owns the notification.
		log.Printf("Payment %s settled concurrently, skipping notification for event %s", object.ID, event.ID)
		return nil
	}

	// Status is committed; the confirmation is best-effort from here on.
	recipient := notify.Recipient{Name: payment.User.Name, Email: payment.User.Email, Phone: payment.User.Phone}
	data := notify.TemplateData{
		Name:        payment.User.Name,
		CourseTitle: paymentCourseTitle(payment),
		Amount:      payment.Amount,
		Currency:    payment.Currency,
	}
	if !ctl.notifier.Send(ctx, notify.ChannelEmail, recipient, notify.TemplatePaymentConfirmation, data) {
		log.Printf("Payment confirmation notification not delivered for payment %s", object.ID)
	}

	return nil
}

// handlePaymentFailed transitions PENDING -> FAILED. No notification is sent
// on failure; the status alone supports reconciliation.
func (ctl *Controller) handlePaymentFailed(event stripe.Event) error {
	var object paymentObject
	if err := json.Unmarshal(event.Data.Raw, &object); err != nil || object.ID == "" {
		log.Printf("Event %s carries no usable payment object", event.ID)
		return nil
	}

	var payment models.Payment
	err := ctl.db.Where("stripe_payment_id = ?", object.ID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Received %s for unknown payment %s", event.Type, object.ID)
		return nil
	}
	if err != nil {
		return err
	}

	if payment.Terminal() {
		log.Printf("Payment %s already %s, treating event %s as duplicate delivery", object.ID, payment.Status, event.ID)
		return nil
	}

	_, err = ctl.transitionPayment(object.ID, models.PaymentFailed)
	return err
}

// transitionPayment moves the payment out of PENDING with a conditional
// update. The returned bool reports whether this caller performed the
// transition; false means another writer already settled the payment.
func (ctl *Controller) transitionPayment(stripePaymentID, status string) (bool, error) {
	result := ctl.db.Model(&models.Payment{}).
		Where("stripe_payment_id = ? AND status = ?", stripePaymentID, models.PaymentPending).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func paymentCourseTitle(payment models.Payment) string {
	if payment.Description != "" {
		return payment.Description
	}
	return "Course enrollment"
}
