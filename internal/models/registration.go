package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WebhookRegistration records a webhook subscription ensured at bootstrap,
// one row per tenant/topic.
type WebhookRegistration struct {
	ID             string    `json:"id" gorm:"type:uuid;primary_key"`
	ShopDomain     string    `json:"shop_domain" gorm:"not null;index"`
	Topic          string    `json:"topic" gorm:"not null"`
	SubscriptionID string    `json:"subscription_id" gorm:"not null"`
	CallbackURL    string    `json:"callback_url" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (r *WebhookRegistration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
