package models

import "time"

// Transaction lifecycle statuses. A transaction that reaches a terminal
// status must never be mutated again.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// Payment axis
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Delivery axis
const (
	DeliveryPending    = "pending"
	DeliveryProcessing = "processing"
	DeliveryDelivered  = "delivered"
	DeliveryFailed     = "failed"
)

// Transaction represents one purchase: a data bundle (single or bulk) or a
// result-checker PIN. Reference is the externally visible idempotency key used
// by both the payment callback and the fulfilment callback.
type Transaction struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Reference      string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"reference"`
	UserID         *uint      `gorm:"index" json:"user_id,omitempty"`
	AgentID        *uint      `gorm:"index" json:"agent_id,omitempty"`
	Amount         float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Profit         float64    `gorm:"type:decimal(15,2);not null;default:0.00" json:"profit"`
	ProductID      uint       `gorm:"not null;index" json:"product_id"`
	ProductName    string     `gorm:"size:191;not null" json:"product_name"`
	ProductType    string     `gorm:"type:enum('bundle','result_checker');not null;default:'bundle'" json:"product_type"`
	Network        string     `gorm:"size:20" json:"network"`
	IsBulkOrder    bool       `gorm:"default:false" json:"is_bulk_order"`
	PhoneNumbers   *string    `gorm:"type:text" json:"phone_numbers,omitempty"` // JSON array, bulk orders only
	CustomerPhone  string     `gorm:"size:20" json:"customer_phone"`
	CustomerEmail  *string    `gorm:"size:191" json:"customer_email,omitempty"`
	Status         string     `gorm:"type:enum('pending','completed','failed','refunded');not null;default:'pending'" json:"status"`
	PaymentStatus  string     `gorm:"type:enum('pending','paid','failed');not null;default:'pending'" json:"payment_status"`
	DeliveryStatus string     `gorm:"type:enum('pending','processing','delivered','failed');not null;default:'pending'" json:"delivery_status"`
	VendorRef      *string    `gorm:"size:191;index" json:"vendor_ref,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// IsTerminal reports whether the lifecycle status is final.
func (t *Transaction) IsTerminal() bool {
	switch t.Status {
	case StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// BulkRecipient is one entry of the serialized phone_numbers list. Bulk orders
// may override the bundle per recipient; empty fields fall back to the
// transaction-level product.
type BulkRecipient struct {
	Phone      string `json:"phone"`
	BundleID   uint   `json:"bundle_id,omitempty"`
	BundleName string `json:"bundle_name,omitempty"`
}
