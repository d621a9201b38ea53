package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutItem adalah snapshot isi keranjang pada saat checkout.
type CheckoutItem struct {
	ProdukID    uint    `json:"produk_id"`
	NamaProduk  string  `json:"nama_produk"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity"`
	HargaSatuan float64 `json:"harga_satuan"`
}

// CheckoutSubmission mendahului Order; order bisa dibuat belakangan dari submission ini.
type CheckoutSubmission struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID           string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	PaymentMethod    string    `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentReference string    `gorm:"type:varchar(100)" json:"payment_reference"`
	Status           string    `gorm:"type:varchar(20);not null;default:'submitted'" json:"status"`
	Total            float64   `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	PaymentDetails   string    `gorm:"type:text" json:"payment_details"`
	ItemsJSON        string    `gorm:"column:items;type:text" json:"-"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (s *CheckoutSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Items mendekode snapshot item. Kolom kosong dianggap tanpa item.
func (s CheckoutSubmission) Items() ([]CheckoutItem, error) {
	if strings.TrimSpace(s.ItemsJSON) == "" {
		return []CheckoutItem{}, nil
	}
	var items []CheckoutItem
	if err := json.Unmarshal([]byte(s.ItemsJSON), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetItems menyimpan snapshot item sebagai JSON.
func (s *CheckoutSubmission) SetItems(items []CheckoutItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	s.ItemsJSON = string(data)
	return nil
}

var checkoutURLKeys = []string{"checkout_url", "redirect_url", "invoice_url", "payment_url"}

// CheckoutURL mengambil URL pembayaran gateway dari payment_details, jika ada.
func (s CheckoutSubmission) CheckoutURL() string {
	if strings.TrimSpace(s.PaymentDetails) == "" {
		return ""
	}

	var details map[string]any
	if err := json.Unmarshal([]byte(s.PaymentDetails), &details); err != nil {
		return ""
	}

	for _, key := range checkoutURLKeys {
		if v, ok := details[key].(string); ok && v != "" {
			return v
		}
	}

	// format Midtrans core API: actions[].url
	actions, _ := details["actions"].([]any)
	for _, a := range actions {
		action, ok := a.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := action["url"].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
