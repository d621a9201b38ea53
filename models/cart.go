package models

import (
	"strconv"
	"time"
)

// CartItem adalah baris tabel keranjang milik satu user.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ProdukID  uint      `gorm:"not null" json:"produk_id"`
	Produk    Product   `gorm:"foreignKey:ProdukID;references:ID" json:"produk"`
	Size      string    `gorm:"type:varchar(10)" json:"size"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

func (CartItem) TableName() string {
	return "keranjang"
}

func (c CartItem) Key() string {
	return strconv.FormatUint(uint64(c.ID), 10)
}

// Favorite di-toggle per produk, jadi kuncinya produk_id.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorit_user_produk" json:"user_id"`
	ProdukID  uint      `gorm:"not null;uniqueIndex:idx_favorit_user_produk" json:"produk_id"`
	Produk    Product   `gorm:"foreignKey:ProdukID;references:ID" json:"produk"`
	CreatedAt time.Time `json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorit"
}

func (f Favorite) Key() string {
	return strconv.FormatUint(uint64(f.ProdukID), 10)
}
