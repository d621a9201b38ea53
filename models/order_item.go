package models

type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"not null;index" json:"order_id"`
	ProdukID    uint    `gorm:"not null" json:"produk_id"`
	Produk      Product `gorm:"foreignKey:ProdukID;references:ID" json:"produk"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	Size        string  `gorm:"type:varchar(10)" json:"size"`
	HargaSatuan float64 `gorm:"type:decimal(12,2);not null" json:"harga_satuan"`
}

// Subtotal = quantity x harga satuan
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.HargaSatuan
}
