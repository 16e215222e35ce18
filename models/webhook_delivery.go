package models

import "time"

// WebhookDelivery records the outcome of one notification (all attempts
// included) so failures can be inspected and resent from the admin panel.
type WebhookDelivery struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Reference  string    `gorm:"type:varchar(191);not null;index" json:"reference"`
	URL        string    `gorm:"size:255;not null" json:"url"`
	Event      string    `gorm:"size:50;not null" json:"event"`
	Success    bool      `gorm:"index" json:"success"`
	StatusCode int       `json:"status_code"`
	Attempts   int       `json:"attempts"`
	Error      *string   `gorm:"type:text" json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (WebhookDelivery) TableName() string {
	return "webhook_deliveries"
}
