package models

// Setting holds store-wide toggles and limits. There is exactly one row.
type Setting struct {
	ID             int     `gorm:"primaryKey" json:"id"`
	StoreName      string  `gorm:"size:100;default:'Smart Data Store'" json:"store_name"`
	SupportPhone   string  `gorm:"size:20" json:"support_phone"`
	MinWithdraw    float64 `gorm:"type:decimal(15,2);default:10.00" json:"min_withdraw"`
	MaxWithdraw    float64 `gorm:"type:decimal(15,2);default:2000.00" json:"max_withdraw"`
	Maintenance    bool    `gorm:"default:false" json:"maintenance"`
	ClosedRegister bool    `gorm:"default:false" json:"closed_register"`
}

func (Setting) TableName() string {
	return "settings"
}
