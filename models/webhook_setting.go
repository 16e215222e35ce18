package models

import "time"

// WebhookSetting is a user's outbound notification subscription: one URL per
// account, with the HMAC secret used to sign payloads.
type WebhookSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	URL       string    `gorm:"size:255;not null" json:"url"`
	Secret    string    `gorm:"size:128;not null" json:"-"`
	Enabled   bool      `gorm:"default:true" json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WebhookSetting) TableName() string {
	return "webhook_settings"
}
