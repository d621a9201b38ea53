package models

import "time"

type Product struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	NamaProduk string    `gorm:"column:nama_produk;type:varchar(255);not null" json:"nama_produk"`
	Harga      float64   `gorm:"type:decimal(12,2);not null" json:"harga"`
	Photo1     string    `gorm:"column:photo1;type:varchar(255)" json:"photo1"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Product) TableName() string {
	return "produk"
}
