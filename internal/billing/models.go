package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Customer maps an app user to their payment-processor customer id.
type Customer struct {
	UserID     string    `gorm:"primaryKey" json:"user_id"`
	CustomerID string    `gorm:"uniqueIndex;not null" json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Customer) TableName() string { return "billing.customers" }

// Subscription mirrors processor-side subscription state, kept in sync by
// webhook events.
type Subscription struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           string    `gorm:"index;not null" json:"user_id"`
	CustomerID       string    `gorm:"index" json:"customer_id"`
	SubscriptionID   string    `gorm:"uniqueIndex;not null" json:"subscription_id"`
	Status           string    `gorm:"size:32" json:"status"` // active, past_due, canceled, ...
	PriceID          string    `json:"price_id"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Subscription) TableName() string { return "billing.subscriptions" }

// WebhookEvent stores every received processor event for idempotent
// handling and reconciliation audits. Processed flips to true only after the
// event's state change has been applied, so a redelivery after a failed
// apply gets another attempt.
type WebhookEvent struct {
	EventID    string         `gorm:"primaryKey" json:"event_id"`
	Type       string         `gorm:"index;size:64" json:"type"`
	Payload    datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	Processed  bool           `gorm:"default:false" json:"processed"`
	ReceivedAt time.Time      `json:"received_at"`
}

func (WebhookEvent) TableName() string { return "billing.webhook_events" }
