package models

import "time"

// Product is a purchasable data bundle tied to a carrier.
type Product struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:191;not null" json:"name"`
	Network    string    `gorm:"type:enum('MTN','Telecel','AirtelTigo');not null;index" json:"network"`
	VolumeMB   int       `gorm:"column:volume_mb;not null" json:"volume_mb"`
	Price      float64   `gorm:"type:decimal(15,2);not null" json:"price"`
	AgentPrice float64   `gorm:"type:decimal(15,2);not null" json:"agent_price"`
	VendorCode string    `gorm:"size:50" json:"vendor_code"` // product code on the fulfilment API
	IsActive   bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

func (Product) TableName() string {
	return "products"
}
