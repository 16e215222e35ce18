package models

import "time"

// ResultCheckerPin is one unit of result-checker stock (WAEC/BECE/NovDec). Pins
// are uploaded by admins and assigned to a transaction when sold. CardURL points
// at the rendered card stored in R2.
type ResultCheckerPin struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CheckerType string     `gorm:"type:enum('WASSCE','BECE','NOVDEC');not null;index" json:"checker_type"`
	Serial      string     `gorm:"size:50;not null;uniqueIndex" json:"serial"`
	Pin         string     `gorm:"size:50;not null" json:"-"`
	Price       float64    `gorm:"type:decimal(15,2);not null" json:"price"`
	Status      string     `gorm:"type:enum('available','sold');not null;default:'available';index" json:"status"`
	SoldRef     *string    `gorm:"size:191;index" json:"sold_ref,omitempty"` // transaction reference
	CardURL     *string    `gorm:"size:255" json:"card_url,omitempty"`
	SoldAt      *time.Time `json:"sold_at,omitempty"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

func (ResultCheckerPin) TableName() string {
	return "result_checker_pins"
}
