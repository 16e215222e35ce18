package models

import "time"

// ApiKey stores only the SHA-256 hash of an issued key. Prefix keeps the first
// characters of the raw key so users can tell their keys apart in the dashboard.
type ApiKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	Label      string     `gorm:"size:100" json:"label"`
	KeyHash    string     `gorm:"type:char(64);not null;uniqueIndex" json:"-"`
	Prefix     string     `gorm:"size:20;not null" json:"prefix"`
	KeyClass   string     `gorm:"type:enum('secret','public');not null;default:'secret'" json:"key_class"`
	Revoked    bool       `gorm:"default:false;index" json:"revoked"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (ApiKey) TableName() string {
	return "api_keys"
}
