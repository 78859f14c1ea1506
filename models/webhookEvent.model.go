package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookEvent stores inbound processor events with deduplication metadata.
// Delivery is at-least-once; the unique (provider, provider_event_id) pair
// lets the receiver detect replays and acknowledge them without reprocessing.
type WebhookEvent struct {
	gorm.Model
	Provider        string         `json:"provider" gorm:"not null;uniqueIndex:ux_webhook_events_provider_event"`
	ProviderEventID string         `json:"provider_event_id" gorm:"not null;uniqueIndex:ux_webhook_events_provider_event"`
	EventType       string         `json:"event_type" gorm:"index"`
	Payload         datatypes.JSON `json:"payload"`
	ProcessedAt     *time.Time     `json:"processed_at"`
}
