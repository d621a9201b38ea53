package models

import (
	"time"
)

// Order dibuat oleh alur checkout backend; storefront hanya membaca kecuali kolom sempit.
type Order struct {
	ID                   uint        `gorm:"primaryKey" json:"id"`
	UserID               string      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	PaymentMethod        string      `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentReference     string      `gorm:"type:varchar(100)" json:"payment_reference"`
	Status               string      `gorm:"type:varchar(20);not null;default:'submitted'" json:"status"`
	TotalAmount          float64     `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	ShippingMethod       string      `gorm:"type:varchar(50)" json:"shipping_method"`
	ShippingStatus       string      `gorm:"type:varchar(50)" json:"shipping_status"`
	ShippingResi         string      `gorm:"type:varchar(100)" json:"shipping_resi"`
	ShippingAddressJSON  string      `gorm:"column:shipping_address_json;type:text" json:"shipping_address_json"`
	CheckoutSubmissionID *string     `gorm:"type:varchar(36);index" json:"checkout_submission_id"`
	CreatedAt            time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time   `gorm:"not null" json:"updated_at"`
	OrderItems           []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
}
