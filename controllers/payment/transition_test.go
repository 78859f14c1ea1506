package paymentController

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kclms/config"
	"kclms/database"
	"kclms/models"
	"kclms/services/notify"
)

func setupTransitionController(t *testing.T) (*Controller, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	notifier := notify.NewDispatcherWithTransports("Knowledge Camp LMS", "http://localhost:3000", nil)
	return New(db, &config.Config{}, notifier), db
}

func TestTransitionPaymentMovesPendingOnce(t *testing.T) {
	ctl, db := setupTransitionController(t)

	payment := models.Payment{UserID: 1, StripePaymentID: "pi_t1", Amount: 100, Status: models.PaymentPending}
	require.NoError(t, db.Create(&payment).Error)

	transitioned, err := ctl.transitionPayment("pi_t1", models.PaymentSucceeded)
	require.NoError(t, err)
	assert.True(t, transitioned)

	var reloaded models.Payment
	require.NoError(t, db.Where("stripe_payment_id = ?", "pi_t1").First(&reloaded).Error)
	assert.Equal(t, models.PaymentSucceeded, reloaded.Status)
}

func TestTransitionPaymentReportsSettledPayment(t *testing.T) {
	ctl, db := setupTransitionController(t)

	// Another writer won the race: the payment is already terminal, so the
	// caller must not notify.
	payment := models.Payment{UserID: 1, StripePaymentID: "pi_t2", Amount: 100, Status: models.PaymentSucceeded}
	require.NoError(t, db.Create(&payment).Error)

	transitioned, err := ctl.transitionPayment("pi_t2", models.PaymentSucceeded)
	require.NoError(t, err)
	assert.False(t, transitioned)

	transitioned, err = ctl.transitionPayment("pi_t2", models.PaymentFailed)
	require.NoError(t, err)
	assert.False(t, transitioned)

	var reloaded models.Payment
	require.NoError(t, db.Where("stripe_payment_id = ?", "pi_t2").First(&reloaded).Error)
	assert.Equal(t, models.PaymentSucceeded, reloaded.Status)
}
