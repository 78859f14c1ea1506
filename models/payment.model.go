package models

import "gorm.io/gorm"

// Payment statuses. SUCCEEDED and FAILED are terminal; the webhook receiver
// is the only writer allowed to move a payment out of PENDING.
const (
	PaymentPending   = "PENDING"
	PaymentSucceeded = "SUCCEEDED"
	PaymentFailed    = "FAILED"
)

// Payment records an external processor transaction. StripePaymentID is the
// processor's id and is unique, so replayed webhook deliveries map onto the
// same row instead of creating duplicates.
type Payment struct {
	gorm.Model
	UserID          uint   `json:"user_id" gorm:"index;not null"`
	CourseID        uint   `json:"course_id" gorm:"index"`
	StripePaymentID string `json:"stripe_payment_id" gorm:"unique;not null"`
	Amount          int64  `json:"amount" gorm:"not null"` // cents
	Currency        string `json:"currency" gorm:"default:'usd'"`
	Description     string `json:"description"`
	Status          string `json:"status" gorm:"default:'PENDING';index"` // PENDING, SUCCEEDED, FAILED
	User            User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Terminal reports whether the payment has reached a final state.
func (p *Payment) Terminal() bool {
	return p.Status == PaymentSucceeded || p.Status == PaymentFailed
}
