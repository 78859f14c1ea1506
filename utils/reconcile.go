package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"kclms/models"
)

// InitializePaymentReconciliation starts the daily sweep that reports
// payments stuck in PENDING. The sweep never transitions status itself;
// PENDING leaves only through the webhook receiver.
func InitializePaymentReconciliation(db *gorm.DB) *cron.Cron {
	c := cron.New()

	c.AddFunc("0 9 * * *", func() {
		log.Println("[RECONCILE] Running daily payment reconciliation check...")
		ReportStalePayments(db)
	})

	c.Start()
	log.Println("[RECONCILE] Payment reconciliation scheduler started - runs daily at 9 AM")
	return c
}

// ReportStalePayments logs payments that have been PENDING for more than 24
// hours so operators can reconcile them against the processor dashboard.
func ReportStalePayments(db *gorm.DB) {
	cutoff := time.Now().Add(-24 * time.Hour)

	var stale []models.Payment
	if err := db.Where("status = ? AND created_at < ?", models.PaymentPending, cutoff).Find(&stale).Error; err != nil {
		log.Printf("[RECONCILE] Error fetching stale payments: %v", err)
		return
	}

	if len(stale) == 0 {
		log.Println("[RECONCILE] No payments pending for more than 24h")
		return
	}

	log.Printf("[RECONCILE] Found %d payments pending for more than 24h", len(stale))
	for _, p := range stale {
		log.Printf("[RECONCILE] Payment %s (user %d) pending since %s", p.StripePaymentID, p.UserID, p.CreatedAt.Format(time.RFC3339))
	}
}
